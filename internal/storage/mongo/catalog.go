package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

const productsCollection = "products"

// Catalog is the document store holding products and their embedded reviews.
type Catalog struct {
	client   *mongo.Client
	products *mongo.Collection
	logger   *slog.Logger
}

// New connects to MongoDB and verifies connectivity.
func New(ctx context.Context, uri, database string, logger *slog.Logger) (*Catalog, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Catalog{
		client:   client,
		products: client.Database(database).Collection(productsCollection),
		logger:   logger,
	}, nil
}

// Close disconnects the underlying client.
func (c *Catalog) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

// Products returns the catalog repository.
func (c *Catalog) Products() repository.ProductRepository {
	return &productRepository{products: c.products, logger: c.logger}
}

// HealthCheck verifies document store connectivity.
func (c *Catalog) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx, nil)
}

type productRepository struct {
	products *mongo.Collection
	logger   *slog.Logger
}

// Prices are stored as canonical decimal strings so the document codec
// never touches decimal internals.
type reviewDoc struct {
	UserID    int64     `bson:"user_id"`
	UserName  string    `bson:"user_name"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment"`
	CreatedAt time.Time `bson:"created_at"`
}

type productDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Image        string             `bson:"image"`
	Brand        string             `bson:"brand"`
	Category     string             `bson:"category"`
	Description  string             `bson:"description"`
	Price        string             `bson:"price"`
	CountInStock int                `bson:"count_in_stock"`
	Rating       float64            `bson:"rating"`
	NumReviews   int                `bson:"num_reviews"`
	Reviews      []reviewDoc        `bson:"reviews"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toProductDoc(p *model.Product) productDoc {
	doc := productDoc{
		Name:         p.Name,
		Image:        p.Image,
		Brand:        p.Brand,
		Category:     p.Category,
		Description:  p.Description,
		Price:        p.Price.String(),
		CountInStock: p.CountInStock,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		Reviews:      make([]reviewDoc, 0, len(p.Reviews)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, r := range p.Reviews {
		doc.Reviews = append(doc.Reviews, reviewDoc(r))
	}
	return doc
}

func (d *productDoc) toModel() (*model.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("malformed price %q in product %s: %w", d.Price, d.ID.Hex(), err)
	}
	p := &model.Product{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Image:        d.Image,
		Brand:        d.Brand,
		Category:     d.Category,
		Description:  d.Description,
		Price:        price,
		CountInStock: d.CountInStock,
		Rating:       d.Rating,
		NumReviews:   d.NumReviews,
		Reviews:      make([]model.Review, 0, len(d.Reviews)),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, r := range d.Reviews {
		p.Reviews = append(p.Reviews, model.Review(r))
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, keyword string, page, pageSize int) (*model.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	filter := bson.M{}
	if keyword != "" {
		filter["name"] = bson.M{"$regex": keyword, "$options": "i"}
	}

	total, err := r.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages == 0 {
		pages = 1
	}
	return &model.ProductPage{Products: products, Page: page, Pages: pages, Total: total}, nil
}

func (r *productRepository) GetByID(ctx context.Context, productID string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, domainErrors.ErrNotFound
	}

	var doc productDoc
	if err := r.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

func (r *productRepository) Top(ctx context.Context, limit int) ([]model.Product, error) {
	if limit < 1 {
		limit = 3
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeProducts(ctx, cursor)
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	doc := toProductDoc(product)

	result, err := r.products.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return nil, domainErrors.ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":           product.Name,
		"image":          product.Image,
		"brand":          product.Brand,
		"category":       product.Category,
		"description":    product.Description,
		"price":          product.Price.String(),
		"count_in_stock": product.CountInStock,
		"updated_at":     time.Now(),
	}}

	result, err := r.products.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return r.GetByID(ctx, product.ID)
}

func (r *productRepository) Delete(ctx context.Context, productID string) error {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return domainErrors.ErrNotFound
	}

	result, err := r.products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// AddReview appends a review and recomputes the aggregate rating. The update
// filter excludes documents already reviewed by the user, so a concurrent
// duplicate loses the race and is rejected.
func (r *productRepository) AddReview(ctx context.Context, productID string, review model.Review) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, domainErrors.ErrNotFound
	}

	var doc productDoc
	if err := r.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	ratingSum := float64(review.Rating)
	for _, existing := range doc.Reviews {
		if existing.UserID == review.UserID {
			return nil, domainErrors.ErrAlreadyExists
		}
		ratingSum += float64(existing.Rating)
	}
	numReviews := len(doc.Reviews) + 1

	update := bson.M{
		"$push": bson.M{"reviews": reviewDoc(review)},
		"$set": bson.M{
			"rating":      ratingSum / float64(numReviews),
			"num_reviews": numReviews,
			"updated_at":  time.Now(),
		},
	}
	filter := bson.M{"_id": oid, "reviews.user_id": bson.M{"$ne": review.UserID}}

	result, err := r.products.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, domainErrors.ErrAlreadyExists
	}
	return r.GetByID(ctx, productID)
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]model.Product, error) {
	var products []model.Product
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		product, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
