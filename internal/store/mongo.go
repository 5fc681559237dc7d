package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PratikDhanave/backoffice-gateway/internal/models"
	"github.com/PratikDhanave/backoffice-gateway/internal/report"
)

const (
	invoicesCollection   = "invoices"
	workOrdersCollection = "workorders"
)

// MongoStore reads invoices and work orders from the document databases of
// the billing and orders services.
type MongoStore struct {
	client   *mongo.Client
	invoices *mongo.Collection
	orders   *mongo.Collection
}

// NewMongoStore connects to uri and fails fast if the server is unreachable.
func NewMongoStore(uri, billingDB, ordersDB string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &MongoStore{
		client:   client,
		invoices: client.Database(billingDB).Collection(invoicesCollection),
		orders:   client.Database(ordersDB).Collection(workOrdersCollection),
	}, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoStore) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.client.Disconnect(ctx)
}

// Invoices returns the invoice reader backed by this store.
func (m *MongoStore) Invoices() report.InvoiceSource { return invoiceSource{m.invoices} }

// WorkOrders returns the work order reader backed by this store.
func (m *MongoStore) WorkOrders() report.WorkOrderSource { return workOrderSource{m.orders} }

type invoiceSource struct {
	coll *mongo.Collection
}

// FindInWindow compares fecha_creacion as text; the billing service stores
// it as an ISO-8601 string, which sorts chronologically.
func (s invoiceSource) FindInWindow(ctx context.Context, w report.Window, limit int) ([]models.Invoice, error) {
	filter := bson.M{"fecha_creacion": bson.M{"$gte": w.Lower(), "$lte": w.Upper()}}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("find invoices: %w", err)
	}
	out := []models.Invoice{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return out, nil
}

// SumTotals sums total over the whole collection on the server side.
func (s invoiceSource) SumTotals(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum invoices: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		Total float64 `bson:"total"`
	}
	if !cur.Next(ctx) {
		return 0, cur.Err()
	}
	if err := cur.Decode(&row); err != nil {
		return 0, fmt.Errorf("decode invoice sum: %w", err)
	}
	return row.Total, nil
}

type workOrderSource struct {
	coll *mongo.Collection
}

func (s workOrderSource) FindPage(ctx context.Context, limit int) ([]models.WorkOrder, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("find work orders: %w", err)
	}
	out := []models.WorkOrder{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode work orders: %w", err)
	}
	return out, nil
}

func (s workOrderSource) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count work orders: %w", err)
	}
	return n, nil
}
