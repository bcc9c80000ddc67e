package logger

// MultiLogger fans every message out to all wrapped loggers.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers into one. Nil entries are ignored.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	ml := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			ml.loggers = append(ml.loggers, l)
		}
	}
	return ml
}

// Tracef logs at trace level.
func (ml *MultiLogger) Tracef(format string, args ...interface{}) {
	for _, l := range ml.loggers {
		l.Tracef(format, args...)
	}
}

// Debugf logs at debug level.
func (ml *MultiLogger) Debugf(format string, args ...interface{}) {
	for _, l := range ml.loggers {
		l.Debugf(format, args...)
	}
}

// Infof logs at info level.
func (ml *MultiLogger) Infof(format string, args ...interface{}) {
	for _, l := range ml.loggers {
		l.Infof(format, args...)
	}
}

// Warnf logs at warn level.
func (ml *MultiLogger) Warnf(format string, args ...interface{}) {
	for _, l := range ml.loggers {
		l.Warnf(format, args...)
	}
}

// Errorf logs at error level.
func (ml *MultiLogger) Errorf(format string, args ...interface{}) {
	for _, l := range ml.loggers {
		l.Errorf(format, args...)
	}
}
