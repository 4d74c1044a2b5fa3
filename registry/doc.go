/*
Package registry maps collection names to their schemas and decoders.

Entity packages register their codecs during initialization:

	func init() {
	    registry.RegisterCodec(IssueCodec)
	}

Tools that only know a collection name at runtime (the CLI, for example)
use Lookup to validate fields and to decode stored documents:

	entry, err := registry.Lookup("issues")
	issue, err := entry.Decode(doc.Ref.ID, doc.Data)

The registry is thread-safe and should be populated during initialization.
Registering a collection twice panics.
*/
package registry
