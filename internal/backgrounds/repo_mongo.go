package backgrounds

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is the collection name used by MongoRepo.
const MongoCollection = "backgrounds"

// MongoRepo implements Repo on a MongoDB collection. Single-document
// operations are atomic on the server.
type MongoRepo struct {
	Coll *mongo.Collection
}

// NewMongoRepo binds a repo to the backgrounds collection of db.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: db.Collection(MongoCollection)}
}

type mongoDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Type              string             `bson:"type"`
	Src               string             `bson:"src,omitempty"`
	SrcPublicID       string             `bson:"srcPublicId,omitempty"`
	Style             string             `bson:"style,omitempty"`
	Thumbnail         string             `bson:"thumbnail,omitempty"`
	ThumbnailPublicID string             `bson:"thumbnailPublicId,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func toMongoDoc(bg Background) mongoDoc {
	return mongoDoc{
		Name:              bg.Name,
		Type:              string(bg.Type),
		Src:               bg.Src,
		SrcPublicID:       bg.SrcHandle,
		Style:             bg.Style,
		Thumbnail:         bg.Thumbnail,
		ThumbnailPublicID: bg.ThumbnailHandle,
		CreatedAt:         bg.CreatedAt,
		UpdatedAt:         bg.UpdatedAt,
	}
}

func (d mongoDoc) background() Background {
	return Background{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Type:            Type(d.Type),
		Src:             d.Src,
		SrcHandle:       d.SrcPublicID,
		Style:           d.Style,
		Thumbnail:       d.Thumbnail,
		ThumbnailHandle: d.ThumbnailPublicID,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func mongoNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// FindByID fetches a background by its hex ObjectID.
func (r *MongoRepo) FindByID(ctx context.Context, id string) (Background, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Background{}, ErrNotFound
	}
	var doc mongoDoc
	if err := r.Coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return Background{}, mongoNotFound(err)
	}
	return doc.background(), nil
}

// FindAll lists every background in insertion order.
func (r *MongoRepo) FindAll(ctx context.Context) ([]Background, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.Coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Background{}
	for cur.Next(ctx) {
		var doc mongoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.background())
	}
	return out, cur.Err()
}

// Insert stores a new document and returns it with its generated id.
func (r *MongoRepo) Insert(ctx context.Context, bg Background) (Background, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := toMongoDoc(bg)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := r.Coll.InsertOne(ctx, doc); err != nil {
		return Background{}, err
	}
	return doc.background(), nil
}

// ReplaceByID swaps the stored document and returns the new version.
func (r *MongoRepo) ReplaceByID(ctx context.Context, id string, bg Background) (Background, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Background{}, ErrNotFound
	}
	doc := toMongoDoc(bg)
	doc.ID = oid
	doc.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = oid.Timestamp().UTC()
	}

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	var out mongoDoc
	if err := r.Coll.FindOneAndReplace(ctx, bson.M{"_id": oid}, doc, opts).Decode(&out); err != nil {
		return Background{}, mongoNotFound(err)
	}
	return out.background(), nil
}

// DeleteByID removes the document and returns it as it was.
func (r *MongoRepo) DeleteByID(ctx context.Context, id string) (Background, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Background{}, ErrNotFound
	}
	var doc mongoDoc
	if err := r.Coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return Background{}, mongoNotFound(err)
	}
	return doc.background(), nil
}

var _ Repo = (*MongoRepo)(nil)
