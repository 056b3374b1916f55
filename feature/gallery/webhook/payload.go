package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gallery-manager/feature/gallery/mediakeys"
)

// Kind is the catalog transition a notification asks for.
type Kind string

const (
	// KindCreated means the object now exists in the bucket.
	KindCreated Kind = "created"
	// KindRemoved means the object is gone from the bucket.
	KindRemoved Kind = "removed"
)

// Event is one normalized bucket change notification. Key is already
// URL-decoded.
type Event struct {
	Key  string
	Kind Kind
	Size int64
}

// ErrUnrecognizedPayload is returned for bodies that match neither
// supported notification shape.
var ErrUnrecognizedPayload = errors.New("unrecognized notification payload")

// envelope covers both wire shapes the notification source sends:
// a flat {key, eventName} object, or an S3-style batched
// {Records: [{eventName, s3: {object: {key, size}}}]} document.
type envelope struct {
	Key       string   `json:"key"`
	EventName string   `json:"eventName"`
	Records   []record `json:"Records"`
}

type record struct {
	EventName string `json:"eventName"`
	S3        struct {
		Object struct {
			Key  string `json:"key"`
			Size int64  `json:"size"`
		} `json:"object"`
	} `json:"s3"`
}

// Parse resolves the payload's shape in one discriminating step and returns
// the normalized events it carries.
func Parse(body []byte) ([]Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed notification body: %w", err)
	}

	if len(env.Records) > 0 {
		events := make([]Event, 0, len(env.Records))
		for _, rec := range env.Records {
			if rec.S3.Object.Key == "" {
				continue
			}
			events = append(events, Event{
				Key:  mediakeys.DecodeKey(rec.S3.Object.Key),
				Kind: kindFromName(rec.EventName),
				Size: rec.S3.Object.Size,
			})
		}
		if len(events) == 0 {
			return nil, ErrUnrecognizedPayload
		}
		return events, nil
	}

	if env.Key != "" {
		return []Event{{
			Key:  mediakeys.DecodeKey(env.Key),
			Kind: kindFromName(env.EventName),
		}}, nil
	}

	return nil, ErrUnrecognizedPayload
}

// kindFromName maps the source's event name onto a transition. Removal
// events carry "ObjectRemoved" in their name; everything else, including an
// absent name (the flat shape allows omitting it), is a creation.
func kindFromName(name string) Kind {
	if strings.Contains(name, "ObjectRemoved") {
		return KindRemoved
	}
	return KindCreated
}
