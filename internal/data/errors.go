package data

import "fmt"

// ArgumentError reports invalid caller input (bad time range, bad region id).
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// RequestError reports a transport-level failure: unreachable host, DNS
// failure, timeout. The API was never (successfully) reached.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("carbon intensity request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// APIError reports a non-2xx response from the Carbon Intensity API.
// Code and Message are taken from the API's error envelope when present;
// Body carries the raw response for debugging.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("carbon intensity API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("carbon intensity API returned status %d", e.StatusCode)
}

// ParseError reports a response body that was not valid JSON or did not
// match the expected shape.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("carbon intensity response could not be parsed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
