package models

import "time"

// Session is the signed-in operator. It is persisted verbatim.
type Session struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	LoginTime string `json:"loginTime"`
}

// LoggedInAt parses LoginTime; the zero time is returned when it is malformed.
func (s *Session) LoggedInAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.LoginTime)
	if err != nil {
		return time.Time{}
	}
	return t
}
