package database

import (
	"context"
	"time"

	"brainbytes-go/pkg/log"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
)

// InitMongo 连接 MongoDB，失败时按 retryInterval 重试，直到成功或 ctx 结束。
func InitMongo(ctx context.Context, uri, dbName string, retryInterval time.Duration) error {
	if retryInterval <= 0 {
		retryInterval = 5 * time.Second
	}
	for {
		client, err := connectMongo(ctx, uri)
		if err == nil {
			MongoClient = client
			MongoDB = client.Database(dbName)
			log.Infof("MongoDB connected successfully, database: %s", dbName)
			return nil
		}
		log.Warnf("MongoDB connection error: %v, retrying in %s", err, retryInterval)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// CloseMongo 断开 MongoDB 连接。
func CloseMongo(ctx context.Context) {
	if MongoClient == nil {
		return
	}
	if err := MongoClient.Disconnect(ctx); err != nil {
		log.Error("failed to disconnect mongodb", err)
	}
}
