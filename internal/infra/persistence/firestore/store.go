// Package firestore implements the DocumentStore against Google Cloud
// Firestore, initialized through the Firebase Admin SDK.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pepre/internal/domain/entity"
	"pepre/internal/domain/repository"
	"pepre/internal/errors"
)

type store struct {
	client *firestore.Client
}

// NewStore initializes the Firebase app and returns a Firestore-backed
// DocumentStore. credentialsPath may be empty, in which case application
// default credentials apply. Close the returned closer on shutdown.
func NewStore(ctx context.Context, projectID, credentialsPath string) (repository.DocumentStore, func() error, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	var fbConfig *firebase.Config
	if projectID != "" {
		fbConfig = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get Firestore client")
	}

	return &store{client: client}, client.Close, nil
}

func (s *store) Get(ctx context.Context, collection, id string) (entity.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, repository.ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get document %s/%s", collection, id)
	}

	return entity.Document(snap.Data()), nil
}

func (s *store) Set(ctx context.Context, collection, id string, doc entity.Document) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, map[string]any(doc)); err != nil {
		return errors.Wrapf(err, "failed to set document %s/%s", collection, id)
	}

	return nil
}

func (s *store) Merge(ctx context.Context, collection, id string, fields entity.Document) error {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Set(ctx, map[string]any(fields), firestore.MergeAll); err != nil {
		return errors.Wrapf(err, "failed to merge document %s/%s", collection, id)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return errors.Wrapf(err, "failed to delete document %s/%s", collection, id)
	}

	return nil
}

func (s *store) All(ctx context.Context, collection string) ([]entity.Document, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list collection %s", collection)
	}

	docs := make([]entity.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, entity.Document(snap.Data()))
	}

	return docs, nil
}

func (s *store) FindByField(ctx context.Context, collection, field string, value any) ([]entity.Document, error) {
	snaps, err := s.client.Collection(collection).
		Where(field, "==", value).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query %s by %s", collection, field)
	}

	docs := make([]entity.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, entity.Document(snap.Data()))
	}

	return docs, nil
}
