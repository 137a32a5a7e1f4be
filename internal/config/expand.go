package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandPath expands ${USER} and ${HOME}, then a leading ~, in a local path
// such as console.debug_log.
func ExpandPath(p string) string {
	return ExpandTilde(Expand(p))
}

// ExpandTilde replaces a leading ~ or ~/ with the home directory. ~user
// forms and unresolvable homes are returned unchanged.
func ExpandTilde(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}

// expansions maps supported ${VAR} names to their resolvers. Resolvers run
// only when the variable appears.
var expansions = map[string]func() string{
	"${USER}": currentUser,
	"${HOME}": homeDir,
}

// Expand replaces ${USER} and ${HOME} in s.
func Expand(s string) string {
	for name, resolve := range expansions {
		if strings.Contains(s, name) {
			s = strings.ReplaceAll(s, name, resolve())
		}
	}
	return s
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
