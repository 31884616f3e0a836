package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sushihentaime/blogapi/internal/blogservice"
	"github.com/sushihentaime/blogapi/internal/common"
	"github.com/sushihentaime/blogapi/internal/mailservice"
	"github.com/sushihentaime/blogapi/internal/userservice"
)

type authService interface {
	Signup(ctx context.Context, req *userservice.SignupRequest) (*userservice.AuthResult, error)
	Login(ctx context.Context, req *userservice.LoginRequest) (*userservice.AuthResult, error)
	GetUserByID(ctx context.Context, id int) (*userservice.User, error)
	Authenticate(ctx context.Context, token string) (*userservice.User, error)
}

type blogService interface {
	CreateBlog(ctx context.Context, authorID int, req *blogservice.CreateBlogRequest) (*blogservice.Blog, error)
	GetPublishedBlog(ctx context.Context, id int) (*blogservice.Blog, error)
	UpdateBlog(ctx context.Context, userID, id int, req *blogservice.UpdateBlogRequest) (*blogservice.Blog, error)
	DeleteBlog(ctx context.Context, userID, id int) error
	ListPublishedBlogs(ctx context.Context, p blogservice.ListParams) (*blogservice.BlogList, error)
	ListOwnBlogs(ctx context.Context, authorID int, p blogservice.OwnerListParams) (*blogservice.BlogList, error)
}

type application struct {
	config      *Config
	logger      *slog.Logger
	userService authService
	blogService blogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker
	limiter     *ipRateLimiter
}

func main() {
	cfg, err := loadConfig(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, closeLog := common.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer closeLog()

	if err := run(cfg, logger); err != nil {
		logger.Error("application stopped", slog.String("error", err.Error()))
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *Config, logger *slog.Logger) error {
	dsn := cfg.DB.DSN()

	db, err := common.NewDB(dsn, cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns, cfg.DB.MaxIdleTime)
	if err != nil {
		return err
	}
	defer common.CloseDB(db)
	logger.Info("database connection established")

	if cfg.MigrationsPath != "" {
		m, err := common.Migrate(cfg.MigrationsPath, dsn)
		if err != nil {
			return err
		}
		m.Close()
		logger.Info("database migrations applied", slog.String("source", cfg.MigrationsPath))
	}

	broker, err := common.NewMessageBroker(cfg.RabbitMQ.URI())
	if err != nil {
		return err
	}
	defer broker.Close()

	if err := common.SetupUserExchange(broker); err != nil {
		return err
	}

	tokens, err := userservice.NewTokenMaker(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return err
	}

	mailCfg := mailservice.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.User,
		Password: cfg.Mail.Password,
		Sender:   cfg.Mail.Sender,
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, broker, common.NewCache[*userservice.User](cfg.Cache.TTL, cfg.Cache.Cleanup), tokens, logger),
		blogService: blogservice.NewBlogService(db),
		mailService: mailservice.NewMailService(broker, mailCfg, logger),
		broker:      broker,
		limiter:     newIPRateLimiter(cfg.Limiter),
	}

	if err := app.mailService.SendWelcomeEmail(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go app.limiter.runCleanup(done)

	return app.serve()
}
