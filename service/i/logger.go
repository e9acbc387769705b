package i

// Logger is the subset of the vinom-common logger the services use.
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}
