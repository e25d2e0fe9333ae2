package log

import (
	"fmt"
	"os"
)

type Logger interface {
	Fatal(str string)
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
}

func New() Logger {
	return &logger{}
}

func (l *logger) Fatal(str string) {
	fmt.Printf("[FATAL]\t%s\n", str)
	os.Exit(1)
}

func (l *logger) Infof(format string, args ...interface{}) {
	fmt.Printf("[INFO]\t"+format+"\n", args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[ERROR]\t"+format+"\n", args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	fmt.Printf("[DEBUG]\t"+format+"\n", args...)
}

// Fatal logs the given message with the default logger and
// exits the process.
func Fatal(str string) {
	New().Fatal(str)
}
