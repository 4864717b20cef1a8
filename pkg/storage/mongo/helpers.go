package mongo

import (
	"context"

	"redactor/pkg/storage"
)

var MongoTestConf = &Config{
	Host:   "localhost",
	Port:   "27018",
	DBName: "terms_test",
}

// StorageConnect is a helper function that establishes a connection to the predefined test Mongo instance.
// It returns a connected Store or an error if connection fails.
func StorageConnect(ctx context.Context) (*Store, error) {
	db, err := New(ctx, MongoTestConf)
	if err != nil {
		return nil, storage.ErrConnectDB
	}

	err = db.Ping(ctx)
	if err != nil {
		db.Close(ctx)
		return nil, storage.ErrDBNotResponding
	}

	return db, nil
}

// RestoreDB drops the terms collection to reset the database state.
// WARNING: Use only in tests to avoid data loss.
func RestoreDB(ctx context.Context, db *Store) error {
	coll := db.client.Database(db.dbName).Collection(termsCollection)
	return coll.Drop(ctx)
}
