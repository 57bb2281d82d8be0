package models

// LoginForm is the urlencoded body of POST /.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm is the urlencoded body of POST /register.
type RegisterForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	PhoneNo  string `form:"phoneNo"`
}

// ResetForm is the urlencoded body of POST /reset. The token rides in a hidden
// input on the reset page.
type ResetForm struct {
	Token    string `form:"token" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// InboundSMS is the webhook payload Twilio posts to /sms.
type InboundSMS struct {
	Body string `form:"Body"`
	From string `form:"From"`
}
