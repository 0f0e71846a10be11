package transport

// EchoRequest is the payload accepted by POST /echo.
type EchoRequest struct {
	Message  string            `json:"message"`
	Repeat   int               `json:"repeat"`
	Metadata map[string]string `json:"metadata"`
}

// EchoResponse is what POST /echo answers before the envelope wraps it.
type EchoResponse struct {
	Messages []string          `json:"messages"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// User is the sample resource served by GET /hello and GET /me.
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Gender   string `json:"gender,omitempty"`
}
