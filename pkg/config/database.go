package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB holds the storage connections: MongoDB for the document store, a
// relational store for the graph-audit journal and an optional Redis cache.
type DB struct {
	Mongo   *mongo.Client
	MongoDB *mongo.Database
	Audit   *gorm.DB
	Redis   *redis.Client
}

// InitDB initializes and returns the storage connections.
func InitDB(cfg *Config) (*DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	mongoClient, err := initMongo(cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	mongoDB := mongoClient.Database(cfg.MongoDBName)

	if err := EnsureUserIndexes(context.Background(), mongoDB); err != nil {
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}

	auditDB, err := initAuditDB(cfg.AuditDBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit journal store: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Println("Successfully connected to Redis!")
	}

	return &DB{
		Mongo:   mongoClient,
		MongoDB: mongoDB,
		Audit:   auditDB,
		Redis:   redisClient,
	}, nil
}

// initMongo initializes the MongoDB connection.
func initMongo(uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB!")
	return client, nil
}

// initAuditDB opens the relational journal store: Postgres when a DSN is
// configured, an embedded sqlite file otherwise.
func initAuditDB(dsn string) (*gorm.DB, error) {
	if dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open("thunderstorm_audit.db"), &gorm.Config{})
}

// EnsureUserIndexes creates the unique indexes the identifier allocator and
// registration uniqueness checks rely on. The unique user_id index is what
// turns a concurrent allocation race into an observable duplicate-key failure.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection("users")
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_id"),
		},
		{
			Keys:    bson.D{{Key: "email_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_id"),
		},
		{
			Keys:    bson.D{{Key: "user_name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_name"),
		},
	})
	return err
}

// CloseDB closes the storage connections.
func (db *DB) CloseDB() {
	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v\n", err)
		} else {
			log.Println("MongoDB connection closed.")
		}
	}

	if db.Audit != nil {
		if sqlDB, err := db.Audit.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Error closing audit journal connection: %v\n", err)
			} else {
				log.Println("Audit journal connection closed.")
			}
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v\n", err)
		} else {
			log.Println("Redis connection closed.")
		}
	}
}
