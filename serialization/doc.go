// Package serialization converts message payloads and metadata to and from
// their wire representation. The Serializer interface is the boundary the
// wire package consumes; JSONSerializer is the default implementation,
// backed by a TypeRegistry that resolves wire type names to Go types.
//
// Payload and metadata serializers are configured independently, so the two
// can use different registries or encodings.
package serialization
