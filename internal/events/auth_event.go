package events

const (
	EventSignup = "signup"
	EventLogin  = "login"
)

type AuthEvent struct {
	Type      string
	UserID    string
	Email     string
	Timestamp int64
}
