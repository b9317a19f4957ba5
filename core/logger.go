package core

type (
	// Logger is the leveled logger used across apps & services.
	// args are optional extras: errors, maps, or an Identity to attach to the report.
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// Identity is implemented by anything that identifies the person behind a log entry.
	Identity interface {
		LogIdentity() (id, name, email string)
	}
)
