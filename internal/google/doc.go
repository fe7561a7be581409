// Package google loads service-account credentials and builds the
// authenticated HTTP client used for Google Docs API calls.
//
// Documents must be shared with the service account's email address; the
// mediator never acts on behalf of an end user.
package google
