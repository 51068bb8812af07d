package models

// ZokoMessageText is the text body of an inbound provider message.
type ZokoMessageText struct {
	Body string `json:"body"`
}

// ZokoMessage is a single inbound message in a webhook payload.
type ZokoMessage struct {
	From string          `json:"from"`
	Text ZokoMessageText `json:"text"`
}

// ZokoWebhookPayload is the body of POST /webhook/zoko. The provider may
// batch several messages; only the first is processed (see the dispatcher).
// The dive tag validates element shape without rejecting an empty batch,
// which gets its own 400 downstream.
type ZokoWebhookPayload struct {
	Messages []ZokoMessage `json:"messages" validate:"dive"`
}
