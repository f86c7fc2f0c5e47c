package audit

import (
	"os"
	"os/user"
)

// CurrentUser определяет имя пользователя: сначала по окружению, затем по учетной записи ОС.
func CurrentUser() string {
	for _, key := range []string{"LOGNAME", "USER", "LNAME", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}
