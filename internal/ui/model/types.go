package model

// Status values reported by the directory API. Only StatusAvailable is special-cased.
const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

// BridgeActionSelectAdmin is the action name sent to the host shell when an admin is picked.
const BridgeActionSelectAdmin = "select_admin"

// Admin represents a directory entry rendered as a card in the picker UI.
type Admin struct {
	Tag         string  `json:"tag"`
	Status      string  `json:"status"`
	Role        string  `json:"role,omitempty"`
	Description string  `json:"description,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// Available reports whether the admin can be contacted.
func (a Admin) Available() bool {
	return a.Status == StatusAvailable
}

// DirectoryResponse matches the JSON envelope served by GET /admins.
type DirectoryResponse struct {
	Success bool    `json:"success"`
	Admins  []Admin `json:"admins"`
}

// UserData identifies the person making a selection. It mirrors the host shell's user object.
type UserData struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// SelectRequest is the payload posted to /select-admin.
type SelectRequest struct {
	AdminTag string   `json:"admin_tag"`
	UserData UserData `json:"user_data"`
}

// SelectResponse captures the API's answer to a selection.
type SelectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BridgeMessage is the JSON document handed to the host shell.
type BridgeMessage struct {
	Action   string `json:"action"`
	AdminTag string `json:"admin_tag"`
}

// NoticeKind classifies a transient alert.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message surfaced to the user after a submission.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Theme carries the colours applied to the host shell on start-up.
type Theme struct {
	HeaderColor     string
	BackgroundColor string
}
