package service

import (
	"encoding/json"

	"crowdgit/internal/core/activity"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/services/delivery/domain"
)

// envelope is the queue message body understood by the downstream consumer
type envelope struct {
	TenantID      string            `json:"tenant_id"`
	Segments      []string          `json:"segments"`
	IntegrationID string            `json:"integration_id,omitempty"`
	Operation     string            `json:"operation"`
	Type          string            `json:"type"`
	Records       []json.RawMessage `json:"records"`
}

func newEnvelope(r domain.Route, records []json.RawMessage) envelope {
	if records == nil {
		records = []json.RawMessage{}
	}
	return envelope{
		TenantID:      r.TenantID,
		Segments:      []string{r.SegmentID},
		IntegrationID: r.IntegrationID,
		Operation:     domain.Operation,
		Type:          domain.MessageType,
		Records:       records,
	}
}

func encodeEnvelope(r domain.Route, records []json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(newEnvelope(r, records))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode envelope")
	}
	return b, nil
}

// encodeOne returns the record encoding and its single record envelope
func encodeOne(r domain.Route, a activity.Activity) (json.RawMessage, []byte, error) {
	rec, err := json.Marshal(a)
	if err != nil {
		return nil, nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode activity")
	}
	msg, err := encodeEnvelope(r, []json.RawMessage{rec})
	if err != nil {
		return nil, nil, err
	}
	return rec, msg, nil
}

// fitted is a record whose single record envelope is below the limit
type fitted struct {
	sourceID  string
	record    json.RawMessage
	message   []byte
	truncated bool
	origSize  int
}

// fit encodes a and, when the envelope reaches limit, cuts Body to the longest
// rune prefix that keeps the envelope strictly below limit. Other fields are never touched
func fit(r domain.Route, a activity.Activity, limit int) (fitted, error) {
	rec, msg, err := encodeOne(r, a)
	if err != nil {
		return fitted{}, err
	}
	out := fitted{sourceID: a.SourceID, record: rec, message: msg, origSize: len(msg)}
	if len(msg) < limit {
		return out, nil
	}

	body := []rune(a.Body)
	size := func(k int) (json.RawMessage, []byte, error) {
		a.Body = string(body[:k])
		return encodeOne(r, a)
	}

	rec, msg, err = size(0)
	if err != nil {
		return fitted{}, err
	}
	if len(msg) >= limit {
		return fitted{}, perr.Newf(perr.ErrorCodeDelivery,
			"record %s is %d bytes without a body, limit %d", a.SourceID, len(msg), limit)
	}

	// size(lo) < limit <= size(hi)
	lo, hi := 0, len(body)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		_, m, err := size(mid)
		if err != nil {
			return fitted{}, err
		}
		if len(m) < limit {
			lo = mid
		} else {
			hi = mid
		}
	}
	if rec, msg, err = size(lo); err != nil {
		return fitted{}, err
	}
	out.record, out.message, out.truncated = rec, msg, true
	return out, nil
}
