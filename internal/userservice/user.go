package userservice

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
