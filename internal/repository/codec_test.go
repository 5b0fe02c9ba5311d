package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/site-store/internal/model"
)

func TestMessageCodecRoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 30, 0, 123000000, time.UTC)
	in := &model.Message{
		ID:        "m1",
		Email:     "a@example.com",
		Name:      "Alice",
		Message:   "hi",
		Status:    model.MessageRead,
		Timestamp: ts,
		IPHash:    "abc",
	}
	fields := messageCodec{}.Encode(in)
	assert.Equal(t, "2024-05-01T08:30:00.123Z", fields[fieldTimestamp])

	raw := make(map[string]string, len(fields))
	for k, v := range fields {
		raw[k] = v.(string)
	}
	out, err := messageCodec{}.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMessageCodecOmitsEmptyOptional(t *testing.T) {
	fields := messageCodec{}.Encode(&model.Message{ID: "m1", Email: "a@example.com", Message: "hi", Status: model.MessageUnread, Timestamp: time.Now()})
	assert.NotContains(t, fields, fieldName)
	assert.NotContains(t, fields, fieldIPHash)
}

func TestCodecDecodeErrors(t *testing.T) {
	_, err := messageCodec{}.Decode(map[string]string{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = messageCodec{}.Decode(map[string]string{fieldEmail: "a@example.com"})
	assert.ErrorIs(t, err, ErrCorruptRecord)

	_, err = messageCodec{}.Decode(map[string]string{fieldID: "m1", fieldTimestamp: "yesterday"})
	assert.ErrorIs(t, err, ErrCorruptRecord)

	_, err = subscriberCodec{}.Decode(map[string]string{fieldID: "s1"})
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestSubscriberCodecUnsubscribedAt(t *testing.T) {
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	at := ts.Add(time.Hour)
	fields := subscriberCodec{}.Encode(&model.Subscriber{
		ID: "s1", Email: "b@example.com", Status: model.SubscriberUnsubscribed, Timestamp: ts, UnsubscribedAt: &at,
	})
	raw := make(map[string]string, len(fields))
	for k, v := range fields {
		raw[k] = v.(string)
	}
	out, err := subscriberCodec{}.Decode(raw)
	require.NoError(t, err)
	require.NotNil(t, out.UnsubscribedAt)
	assert.True(t, at.Equal(*out.UnsubscribedAt))
	assert.Equal(t, model.SubscriberUnsubscribed, out.Status)

	delete(raw, fieldUnsubscribedAt)
	out, err = subscriberCodec{}.Decode(raw)
	require.NoError(t, err)
	assert.Nil(t, out.UnsubscribedAt)
}
