package blogservice

import (
	"strings"
	"unicode/utf8"

	"github.com/sushihentaime/blogapi/internal/common"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
	MaxTags              = 20
	MaxTagLength         = 50
)

func validateTitle(v *common.Validator, title string) {
	v.Check(strings.TrimSpace(title) != "", "title", "must be provided")
	v.Check(utf8.RuneCountInString(title) <= MaxTitleLength, "title", "must not be more than 255 characters long")
}

func validateBody(v *common.Validator, body string) {
	v.Check(strings.TrimSpace(body) != "", "body", "must be provided")
}

func validateDescription(v *common.Validator, description string) {
	v.Check(utf8.RuneCountInString(description) <= MaxDescriptionLength, "description", "must not be more than 1000 characters long")
}

func validateTags(v *common.Validator, tags []string) {
	v.Check(len(tags) <= MaxTags, "tags", "must not contain more than 20 tags")
	for _, tag := range tags {
		v.Check(utf8.RuneCountInString(tag) <= MaxTagLength, "tags", "must each be at most 50 characters long")
	}
}

func validateID(v *common.Validator, id int, name string) {
	v.Check(id > 0, name, "must be greater than zero")
}
