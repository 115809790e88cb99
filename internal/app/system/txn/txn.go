// Package txn runs multi-document writes in a MongoDB transaction when the
// deployment supports one.
//
// Linking an ad account writes two documents (the account and the owner's
// ad_accounts list). On a replica set both writes commit together; on a
// standalone server the function runs again without a session.
//
//	err := txn.Run(ctx, db, log, func(ctx context.Context) error {
//	    if err := accounts.Insert(ctx, acct); err != nil {
//	        return err
//	    }
//	    return users.AddAdAccount(ctx, email, acct.ID.Hex())
//	})
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Func is the body of a transaction. ctx is a mongo.SessionContext when a
// transaction is active and the caller's context otherwise.
type Func func(ctx context.Context) error

// Run executes fn inside a transaction, or directly when transactions are
// unavailable. log may be nil.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn Func) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if log != nil {
			log.Warn("failed to start session, running without transaction", zap.Error(err))
		}
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Debug("transactions not supported, running without transaction", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions (standalone mongod, DocumentDB without a
// replica set). Codes: 20 IllegalOperation on standalone, 51, 263.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	// Two keywords avoid matching ordinary write errors.
	return hits >= 2
}
