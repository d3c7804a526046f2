// Package firestore implements the ledger ports against the hosted Firestore
// document database, the durable source of truth for records and client
// names. The collaborator surface is deliberately small: list a collection in
// full, insert a document, delete a document by id, and upsert a document
// under a caller-chosen id. There is no retry and no backoff; failures are
// wrapped and propagated for the caller to log.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	goption "google.golang.org/api/option"

	"janbu/internal/core"
	ports "janbu/internal/ledger"
)

type Client struct {
	svc               *firestore.Client
	recordsCollection string
	clientsCollection string
}

// Ensure interface conformance
var (
	_ ports.RecordWriter   = (*Client)(nil)
	_ ports.RecordLister   = (*Client)(nil)
	_ ports.RecordDeleter  = (*Client)(nil)
	_ ports.ClientRegistry = (*Client)(nil)
)

// NewFromEnv creates a Firestore client using environment variables.
// Required: FIRESTORE_PROJECT_ID (falls back to GOOGLE_CLOUD_PROJECT).
// Optional auth: FIRESTORE_CREDENTIALS_JSON or FIRESTORE_CREDENTIALS_FILE;
// otherwise application default credentials apply.
// Optional collection names: FIRESTORE_RECORDS_COLLECTION (default "records"),
// FIRESTORE_CLIENTS_COLLECTION (default "clients").
func NewFromEnv(ctx context.Context) (*Client, error) {
	projectID := strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID"))
	if projectID == "" {
		projectID = strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT"))
	}
	if projectID == "" {
		return nil, errors.New("missing FIRESTORE_PROJECT_ID")
	}

	var opts []goption.ClientOption
	if credsJSON := strings.TrimSpace(os.Getenv("FIRESTORE_CREDENTIALS_JSON")); credsJSON != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(credsJSON)))
	} else if credsFile := strings.TrimSpace(os.Getenv("FIRESTORE_CREDENTIALS_FILE")); credsFile != "" {
		opts = append(opts, goption.WithCredentialsFile(credsFile))
	}

	svc, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	records := strings.TrimSpace(os.Getenv("FIRESTORE_RECORDS_COLLECTION"))
	if records == "" {
		records = "records"
	}
	clients := strings.TrimSpace(os.Getenv("FIRESTORE_CLIENTS_COLLECTION"))
	if clients == "" {
		clients = "clients"
	}

	return &Client{svc: svc, recordsCollection: records, clientsCollection: clients}, nil
}

func (c *Client) Close() error {
	return c.svc.Close()
}

// Append implements ledger.RecordWriter.
func (c *Client) Append(ctx context.Context, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	id, err := c.insert(ctx, c.recordsCollection, map[string]interface{}{
		"date":       r.Date,
		"client":     r.Client,
		"amount":     r.Amount,
		"memo":       r.Memo,
		"created_at": firestore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("append record: %w", err)
	}
	slog.InfoContext(ctx, "Record saved to Firestore",
		"id", id,
		"date", r.Date,
		"client", r.Client)
	return id, nil
}

// ListAll implements ledger.RecordLister: the full records collection,
// newest first so the page shows recent entries on top.
func (c *Client) ListAll(ctx context.Context) ([]core.Record, error) {
	iter := c.svc.Collection(c.recordsCollection).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var records []core.Record
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		records = append(records, recordFromDoc(snap.Ref.ID, snap.Data()))
	}
	return records, nil
}

// DeleteRecord implements ledger.RecordDeleter.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("missing record id")
	}
	if err := c.deleteByID(ctx, c.recordsCollection, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Record deleted from Firestore", "id", id)
	return nil
}

// ListClients implements ledger.ClientRegistry. Client documents are keyed by
// the name itself, so the ids are the registry.
func (c *Client) ListClients(ctx context.Context) ([]string, error) {
	iter := c.svc.Collection(c.clientsCollection).Documents(ctx)
	defer iter.Stop()

	var names []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		names = append(names, snap.Ref.ID)
	}
	return names, nil
}

// RegisterClient implements ledger.ClientRegistry. Upserting under the name
// makes re-registration naturally idempotent.
func (c *Client) RegisterClient(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyClient
	}
	err := c.upsertByID(ctx, c.clientsCollection, name, map[string]interface{}{
		"name":       name,
		"created_at": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("register client %q: %w", name, err)
	}
	return nil
}

// insert adds a document with a collaborator-assigned id.
func (c *Client) insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	ref, _, err := c.svc.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (c *Client) deleteByID(ctx context.Context, collection, id string) error {
	_, err := c.svc.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (c *Client) upsertByID(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := c.svc.Collection(collection).Doc(id).Set(ctx, fields)
	return err
}

func recordFromDoc(id string, data map[string]interface{}) core.Record {
	return core.Record{
		ID:     id,
		Date:   stringField(data, "date"),
		Client: stringField(data, "client"),
		Amount: stringField(data, "amount"),
		Memo:   stringField(data, "memo"),
	}
}

// stringField tolerates missing and mistyped fields: documents written by
// older clients may store the amount as a number.
func stringField(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return core.FormatAmount(v)
	case time.Time:
		return v.Format("2006-01-02")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
