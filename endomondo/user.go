package endomondo

import (
	"context"
	"encoding/json"
)

// Profile represents the authenticated user's profile. Raw retains the
// originating JSON for the fields the typed view does not model.
type Profile struct {
	ID    string
	Email string
	Name  string
	Raw   json.RawMessage
}

type rawProfile struct {
	ID    json.RawMessage `json:"id"`
	Email *string         `json:"email"`
	Name  *string         `json:"name"`
}

func parseProfile(data json.RawMessage) (*Profile, error) {
	var raw rawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedResponseError{Field: "profile", Err: err}
	}

	id, ok := idString(raw.ID)
	if !ok {
		return nil, &MalformedResponseError{Field: "id"}
	}

	p := &Profile{ID: id, Raw: data}
	if raw.Email != nil {
		p.Email = *raw.Email
	}
	if raw.Name != nil {
		p.Name = *raw.Name
	}
	return p, nil
}

// UserService handles communication with the user related endpoints.
type UserService struct {
	client *Client
}

// Get fetches the authenticated user's profile.
func (s *UserService) Get(ctx context.Context) (*Profile, error) {
	raw, err := s.client.get(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	return parseProfile(raw)
}
