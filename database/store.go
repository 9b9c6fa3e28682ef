package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"memehub/feed"
	"memehub/models"
)

// PostStore implements feed.PostStore on top of the posts collection.
// Pagination is keyset-based: the query is ordered by (sortField, _id) and
// a cursor resumes strictly after the last seen (value, id) pair, so ties
// on the sort value are neither repeated nor skipped.
type PostStore struct {
	coll *mongo.Collection
}

func NewPostStore(coll *mongo.Collection) *PostStore {
	return &PostStore{coll: coll}
}

func (s *PostStore) QueryPage(ctx context.Context, sortField string, descending bool, after *feed.Cursor, limit int) (*feed.Page, error) {
	dir := 1
	if descending {
		dir = -1
	}

	filter := bson.M{}
	if after != nil {
		pred, err := rangePredicate(sortField, descending, after)
		if err != nil {
			return nil, err
		}
		filter = pred
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: dir}, {Key: "_id", Value: dir}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].MediaType = models.NormalizeMediaType(posts[i].MediaType)
	}

	page := &feed.Page{Items: posts, RawCount: len(posts)}
	if len(posts) > 0 {
		last := posts[len(posts)-1]
		next := &feed.Cursor{LastID: last.ID.Hex()}
		if sortField == "title" {
			v := last.Title
			next.StrVal = &v
		} else {
			v := sortValue(&last, sortField)
			next.IntVal = &v
		}
		page.Next = next
	}
	return page, nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, feed.ErrNotFound
	}

	var post models.Post
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	post.MediaType = models.NormalizeMediaType(post.MediaType)
	return &post, nil
}

func (s *PostStore) UpdateFields(ctx context.Context, id string, update feed.FieldUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return feed.ErrNotFound
	}

	doc := bson.M{}
	if len(update.Set) > 0 {
		set := bson.M{}
		for k, v := range update.Set {
			set[k] = v
		}
		doc["$set"] = set
	}
	if len(update.Inc) > 0 {
		inc := bson.M{}
		for k, v := range update.Inc {
			inc[k] = v
		}
		doc["$inc"] = inc
	}
	if len(update.AddToSet) > 0 {
		add := bson.M{}
		for k, v := range update.AddToSet {
			add[k] = v
		}
		doc["$addToSet"] = add
	}
	if len(update.Pull) > 0 {
		pull := bson.M{}
		for k, v := range update.Pull {
			pull[k] = v
		}
		doc["$pull"] = pull
	}
	if len(doc) == 0 {
		return nil
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return feed.ErrNotFound
	}
	return nil
}

func (s *PostStore) Insert(ctx context.Context, post *models.Post) (string, error) {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, post); err != nil {
		return "", err
	}
	return post.ID.Hex(), nil
}

func (s *PostStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return feed.ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return feed.ErrNotFound
	}
	return nil
}

// rangePredicate builds the keyset continuation filter: strictly past the
// cursor's sort value, or equal on the sort value and strictly past its id.
func rangePredicate(sortField string, descending bool, after *feed.Cursor) (bson.M, error) {
	lastID, err := primitive.ObjectIDFromHex(after.LastID)
	if err != nil {
		return nil, feed.ErrBadCursor
	}

	op := "$gt"
	if descending {
		op = "$lt"
	}

	var value interface{}
	switch {
	case after.StrVal != nil:
		value = *after.StrVal
	case after.IntVal != nil:
		value = *after.IntVal
	default:
		return nil, feed.ErrBadCursor
	}

	return bson.M{"$or": bson.A{
		bson.M{sortField: bson.M{op: value}},
		bson.M{sortField: value, "_id": bson.M{op: lastID}},
	}}, nil
}

func sortValue(p *models.Post, field string) int64 {
	switch field {
	case "views":
		return p.Views
	case "downloads":
		return p.Downloads
	case "reactions.count":
		return p.Reactions.Count
	default:
		return p.CreatedAt
	}
}
