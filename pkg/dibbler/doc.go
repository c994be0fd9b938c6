/*
Package dibbler implements Azrael's asset store: a namespaced bytes
store for fragment files under two URL prefixes,
/templates/<name>/<frag>/... and /instances/<objID>/<frag>/....

AddTemplate writes every fragment's files under the template prefix
plus a per-template meta document. SpawnTemplate copies the entire
asset subtree of a template to the instance prefix — the point where
an instance's assets come to exist. UpdateFragments rewrites only
the named fragments, distinguishing a meta-only patch (only the
fragment's meta is rewritten; stored data bytes are untouched) from a
full data replacement. DelTemplate and DelInstance
recursively remove a subtree using a prefix match that treats
"/instances/1" and "/instances/11" as disjoint (a naive string prefix
check does not).

localstore.go backs this onto the local filesystem the way
pkg/volume/local.go backs volumes onto local directories: fragment
bytes are lz4-compressed on write and xxhash-digested for an
ETag-like content hash so idempotent patch checks (updating a
fragment with identical data twice) don't need to re-read or
re-decompress the blob to notice nothing changed.
*/
package dibbler
