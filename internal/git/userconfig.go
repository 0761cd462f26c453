package git

import (
	"os"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// UserInfo identifies the author of release commits.
type UserInfo struct {
	Name      string
	Email     string
	FromEnv   bool
	IsDefault bool
}

// Placeholder identity used when nothing is configured.
const (
	DefaultUserName  = "gewe-notice release"
	DefaultUserEmail = "release@localhost"
)

// DetectUser picks the commit author:
// 1. GIT_AUTHOR_NAME / GIT_AUTHOR_EMAIL
// 2. user.name / user.email from the repository, then global git config
// 3. Placeholder values
func DetectUser(repo *gogit.Repository) UserInfo {
	if name := os.Getenv("GIT_AUTHOR_NAME"); name != "" {
		email := os.Getenv("GIT_AUTHOR_EMAIL")
		if email == "" {
			email = DefaultUserEmail
		}
		return UserInfo{Name: name, Email: email, FromEnv: true}
	}

	if repo != nil {
		if cfg, err := repo.ConfigScoped(config.GlobalScope); err == nil && cfg.User.Name != "" {
			email := cfg.User.Email
			if email == "" {
				email = DefaultUserEmail
			}
			return UserInfo{Name: cfg.User.Name, Email: email}
		}
	}

	return UserInfo{
		Name:      DefaultUserName,
		Email:     DefaultUserEmail,
		IsDefault: true,
	}
}
