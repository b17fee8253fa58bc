package core

import "github.com/sirupsen/logrus"

// defaultLogger is the package-wide diagnostic sink. The scheduling core
// never depends on logging for correctness; it is purely observational.
var defaultLogger = logrus.StandardLogger()

// SetLogger overrides the logger used by the core package. Passing nil
// restores the standard logrus logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	defaultLogger = l
}
