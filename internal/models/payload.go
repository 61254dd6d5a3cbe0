package models

// Payload is the decoded JSON object of a webhook POST. Numbers are kept as json.Number.
type Payload map[string]any
