// Package docs implements the Google Docs backend.
//
// Documents are read through the Docs v1 API and rendered as one
// "[PARAGRAPH:n] <markdown>" line per non-blank body paragraph. Writes run
// the text through the formatter and are sent as a single batchUpdate whose
// indices are computed in UTF-16 code units.
//
// Example usage:
//
//	creds, err := google.LoadCredentials("credentials.json")
//	if err != nil {
//	    return err
//	}
//	service, err := docs.NewService(ctx, creds)
//	if err != nil {
//	    return err
//	}
//	client := docs.NewClient(service, backend.Documents{"1": docID},
//	    docs.WithShareHint(creds.Email()))
//	text, err := client.Read(ctx, "1")
package docs
