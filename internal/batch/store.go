package batch

import (
	"context"

	"github.com/vmunix/embedarr/internal/library"
)

// InsertOps inserts sources through a library.Repository.
type InsertOps struct {
	Repo library.Repository
}

var _ Ops[library.Source, library.Source] = InsertOps{}

func (o InsertOps) ApplyChunk(ctx context.Context, items []library.Source) ([]library.Source, error) {
	return o.Repo.InsertMany(ctx, items)
}

func (o InsertOps) ApplyOne(ctx context.Context, item library.Source) (library.Source, error) {
	return o.Repo.InsertOne(ctx, item)
}

func (o InsertOps) Describe(item library.Source) string {
	return item.Label
}

// DeleteOps deletes sources by ID. Committed holds the deleted IDs.
type DeleteOps struct {
	Repo library.Repository
}

var _ Ops[string, string] = DeleteOps{}

func (o DeleteOps) ApplyChunk(ctx context.Context, ids []string) ([]string, error) {
	if err := o.Repo.DeleteManyByIDs(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (o DeleteOps) ApplyOne(ctx context.Context, id string) (string, error) {
	if err := o.Repo.DeleteOneByID(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

func (o DeleteOps) Describe(id string) string {
	return id
}
