package error

import "fmt"

type CustomError struct {
	Message string
	Code    string
	Hints   []string
	Err     error
}

func (err *CustomError) Error() string {
	msg := err.Message
	if err.Code != "" {
		msg = fmt.Sprintf("[%s] %s", err.Code, err.Message)
	}
	if err.Err != nil {
		return fmt.Sprintf("%s: %v", msg, err.Err)
	}
	return msg
}

func (err *CustomError) Unwrap() error {
	return err.Err
}

// Is matches on Code only, so a wrapped copy still satisfies errors.Is
// against its sentinel.
func (err *CustomError) Is(target error) bool {
	if targetErr, ok := target.(*CustomError); ok {
		return err.Code == targetErr.Code
	}
	return false
}

// Wrap returns a copy of err carrying cause.
func (err *CustomError) Wrap(cause error) *CustomError {
	wrapped := *err
	wrapped.Err = cause
	return &wrapped
}

func NewCustomError(code, message string, hints ...string) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Hints:   hints,
	}
}

var (
	ErrClientNotFound = NewCustomError("SETUP_1001", "PostgreSQL is not installed or not in PATH",
		"Windows: Download from https://www.postgresql.org/download/windows/",
		"macOS: brew install postgresql",
		"Ubuntu/Debian: sudo apt-get install postgresql postgresql-contrib",
		"CentOS/RHEL: sudo yum install postgresql-server postgresql-contrib",
	)
	ErrDatabaseURLMissing = NewCustomError("SETUP_1002", "DATABASE_URL not found in .env file")
	ErrCommandFailed      = NewCustomError("SETUP_1003", "Command failed")

	ErrConnectivity = NewCustomError("DB_2001", "Database connection failed",
		"Make sure PostgreSQL is running",
		"Check your DATABASE_URL in .env file",
		"Ensure the database and user exist",
		"Try: sudo systemctl start postgresql (Linux)",
		"Try: brew services start postgresql (macOS)",
	)
	ErrSchemaCreation = NewCustomError("DB_2002", "Schema creation failed")

	ErrInvalidConfig = NewCustomError("CONFIG_3001", "Invalid configuration")
)
