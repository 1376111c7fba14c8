package repo

import (
	"time"

	"github.com/pkg/errors"

	"github.com/foomo/sitecheck/content"
	"github.com/foomo/sitecheck/pkg/hierarchy"
)

// Snapshot an immutable, fully decoded bundle. Every pass over the content
// works on one snapshot and never sees a half applied update.
type Snapshot struct {
	Raw       content.Raw
	Bundle    *content.Bundle
	Hierarchy *hierarchy.Hierarchy
	Bytes     []byte
	LoadedAt  time.Time
	// Problems reported by the ingestion checks
	Problems error
}

// NewSnapshot decodes data into all of its forms. Only undecodable data and
// non object bundles are rejected, ingestion problems are kept on the
// snapshot.
func NewSnapshot(data []byte) (*Snapshot, error) {
	v, err := content.DecodeRaw(data)
	if err != nil {
		return nil, err
	}
	raw, ok := content.Object(v)
	if !ok || raw == nil {
		return nil, errors.New("bundle is not a json object")
	}
	bundle := content.Parse(raw)
	return &Snapshot{
		Raw:       raw,
		Bundle:    bundle,
		Hierarchy: hierarchy.Build(bundle.Nodes()),
		Bytes:     data,
		LoadedAt:  time.Now(),
		Problems:  content.Check(bundle),
	}, nil
}
