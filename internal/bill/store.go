package bill

import "context"

// CreateRequest is the payload for uploading a receipt and opening a draft
// record for it.
type CreateRequest struct {
	FileName    string
	Data        []byte
	ContentType string
	Email       string
}

// CreateResult is returned by a successful receipt upload. Key identifies
// the opened record for the later Update call.
type CreateResult struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	Key      string `json:"key"`
}

// Store is the remote-store contract the containers consume. List returns
// every stored bill, Create uploads a receipt and opens a keyed record,
// Update fills that record with the submitted form values. Implementations
// report failures as errors whose message is shown to the user verbatim.
type Store interface {
	List(ctx context.Context) ([]*Bill, error)
	Create(ctx context.Context, req CreateRequest) (CreateResult, error)
	Update(ctx context.Context, b *Bill) (*Bill, error)
}
