package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/subject"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const messageCollection = "messages"

// mongoMessageRepository 是 MessageRepository 接口的 MongoDB 实现。
type mongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository 创建一个基于 MongoDB 的 MessageRepository。
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{coll: db.Collection(messageCollection)}
}

func (r *mongoMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *mongoMessageRepository) FindAll(ctx context.Context) ([]model.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []model.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *mongoMessageRepository) DeleteBySubject(ctx context.Context, sub string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, subjectFilter(sub))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// subjectFilter 构建按学科删除的过滤条件。
// General 匹配：General、字段缺失、null、空串、以及不属于集合的取值。
func subjectFilter(sub string) bson.M {
	if subject.IsGeneral(sub) {
		known := bson.Regex{Pattern: "^(" + strings.Join(subject.Values(), "|") + ")$", Options: "i"}
		return bson.M{"$or": bson.A{
			bson.M{"subject": bson.Regex{Pattern: "^General$", Options: "i"}},
			bson.M{"subject": bson.M{"$exists": false}},
			bson.M{"subject": nil},
			bson.M{"subject": ""},
			bson.M{"subject": bson.M{"$not": known}},
		}}
	}
	return bson.M{"subject": bson.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(sub)) + "$", Options: "i"}}
}

func (r *mongoMessageRepository) CountUserMessagesBySubject(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "isUser", Value: true}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$subject"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Subject interface{} `bson:"_id"`
		Count   int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		key, _ := row.Subject.(string)
		counts[key] += row.Count
	}
	return counts, nil
}

func (r *mongoMessageRepository) LatestUserMessage(ctx context.Context) (*model.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var msg model.Message
	err := r.coll.FindOne(ctx, bson.D{{Key: "isUser", Value: true}}, opts).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
