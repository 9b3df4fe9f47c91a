// Package document encodes and decodes the profile collection as a single JSON document.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"profile-service/internal/domain"
)

// naive ISO-8601 layouts carry no offset and are read as UTC
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type record struct {
	ID            *int64  `json:"id"`
	Username      *string `json:"username"`
	Password      *string `json:"password"`
	Gender        *string `json:"gender"`
	FullName      *string `json:"full_name"`
	StreetAddress *string `json:"street_address"`
	Email         *string `json:"email"`
	CreatedAt     *string `json:"created_at"`
}

type wireProfile struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Gender        string `json:"gender"`
	FullName      string `json:"full_name"`
	StreetAddress string `json:"street_address"`
	Email         string `json:"email"`
	CreatedAt     string `json:"created_at"`
}

// Decode parses a profile document. The top level must be a JSON list; every
// record must carry every field with the right type.
func Decode(r io.Reader) ([]domain.Profile, error) {
	dec := json.NewDecoder(r)

	var records []record
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if records == nil {
		return nil, errors.New("document is not a list")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after document")
	}

	profiles := make([]domain.Profile, 0, len(records))
	for i, rec := range records {
		p, err := rec.toProfile()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(b []byte) ([]domain.Profile, error) {
	return Decode(bytes.NewReader(b))
}

// Encode writes the collection as an indented JSON list.
func Encode(w io.Writer, profiles []domain.Profile) error {
	return EncodeKeeping(w, profiles, nil)
}

// EncodeKeeping is Encode, except that a created_at instant already spelled
// in prev is written back with that exact text.
func EncodeKeeping(w io.Writer, profiles []domain.Profile, prev Timestamps) error {
	out := make([]wireProfile, len(profiles))
	for i, p := range profiles {
		out[i] = wireProfile{
			ID:            p.ID,
			Username:      p.Username,
			Password:      p.Password,
			Gender:        p.Gender,
			FullName:      p.FullName,
			StreetAddress: p.StreetAddress,
			Email:         p.Email,
			CreatedAt:     prev.format(p.CreatedAt),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// Timestamps maps a created_at instant to the text an existing document
// spells it with.
type Timestamps map[string]string

// ReadTimestamps collects the created_at spellings of doc. Anything it cannot
// read is skipped; a nil or unreadable doc yields an empty set.
func ReadTimestamps(doc []byte) Timestamps {
	var records []struct {
		CreatedAt *string `json:"created_at"`
	}
	if len(doc) == 0 || json.Unmarshal(doc, &records) != nil {
		return nil
	}

	ts := make(Timestamps, len(records))
	for _, rec := range records {
		if rec.CreatedAt == nil {
			continue
		}
		t, err := ParseTime(*rec.CreatedAt)
		if err != nil {
			continue
		}
		key := canonicalTime(t)
		if _, seen := ts[key]; !seen {
			ts[key] = *rec.CreatedAt
		}
	}
	return ts
}

func (ts Timestamps) format(t time.Time) string {
	key := canonicalTime(t)
	if raw, ok := ts[key]; ok {
		return raw
	}
	return key
}

func canonicalTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(profiles []domain.Profile) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, profiles); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseTime accepts RFC 3339 and offset-less ISO-8601 timestamps.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func (r record) toProfile() (domain.Profile, error) {
	missing := func(name string) error { return fmt.Errorf("missing field %q", name) }

	switch {
	case r.ID == nil:
		return domain.Profile{}, missing("id")
	case r.Username == nil:
		return domain.Profile{}, missing("username")
	case r.Password == nil:
		return domain.Profile{}, missing("password")
	case r.Gender == nil:
		return domain.Profile{}, missing("gender")
	case r.FullName == nil:
		return domain.Profile{}, missing("full_name")
	case r.StreetAddress == nil:
		return domain.Profile{}, missing("street_address")
	case r.Email == nil:
		return domain.Profile{}, missing("email")
	case r.CreatedAt == nil:
		return domain.Profile{}, missing("created_at")
	}

	createdAt, err := ParseTime(*r.CreatedAt)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("field \"created_at\": %w", err)
	}

	return domain.Profile{
		ID:            *r.ID,
		Username:      *r.Username,
		Password:      *r.Password,
		Gender:        *r.Gender,
		FullName:      *r.FullName,
		StreetAddress: *r.StreetAddress,
		Email:         *r.Email,
		CreatedAt:     createdAt,
	}, nil
}
