/*
Package mediacloud is a client for a hosted media management service: uploading images, videos
and raw files, administering stored assets, and building delivery URLs.

Requests are described by parameter structs. Each struct validates itself (Check) before any
network I/O and flattens into the dictionary the service expects (ToParams). Upload API requests
are signed with the account secret; admin API requests use basic authentication. Responses are
decoded into result structs that keep the raw body and any error object the service returned.

The main entry point is TypedRest, created from a Config. UntypedRest shares the same transport
and exposes every endpoint family as raw dictionaries for fields the typed layer does not model.
*/
package mediacloud
