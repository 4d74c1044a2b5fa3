/*
Package errors provides semantic error types for the fieldstore access layer.

The package defines the error taxonomy every store and repository returns.
Each kind can be checked with the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("document not found")
	    ErrAlreadyExists = errors.New("document already exists")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrEncoding      = errors.New("encoding failed")
	    ErrDecoding      = errors.New("decoding failed")
	    ErrStore         = errors.New("store failure")
	    ErrNoSchema      = errors.New("no schema registered for collection")
	)

Usage:

	issue, err := issues.Get(ctx, "A1")
	if err != nil {
	    if errors.IsNotFound(err) {
	        return nil, fmt.Errorf("issue %s does not exist", "A1")
	    }
	    return nil, err
	}

	err := errors.NewNotFoundError("issues", "A1")
	err := errors.NewEncodingError("buildings", "B1", "latitude", cause)
	err := errors.NewStoreError("query", "issues", transportErr)

StoreError, EncodingError and DecodingError wrap their cause, so a backend
specific error (a DynamoDB exception, a gRPC status) stays reachable with
errors.As.
*/
package errors
