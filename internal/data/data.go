package data

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/VanshChitransh/ConsultabidV1/internal/conf"
	"github.com/VanshChitransh/ConsultabidV1/internal/model"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Data holds every shared backing-store handle.
type Data struct {
	DB    *gorm.DB
	Redis *redis.Client
	Minio *minio.Client

	Bucket    string
	PublicURL string
}

func NewData(cfg *conf.Config) (*Data, func(), error) {
	// 1. Postgres
	pgDB, err := gorm.Open(postgres.Open(cfg.Data.DatabaseSource), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Schema migration; the unique index on estimates.source_pdf_id is the
	// serialization point for concurrent processing requests.
	if err := pgDB.AutoMigrate(
		&model.User{},
		&model.Upload{},
		&model.Estimate{},
	); err != nil {
		return nil, nil, fmt.Errorf("schema migration failed: %v", err)
	}
	log.Println("database migration complete")

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Data.RedisAddr,
		Password: cfg.Data.RedisPassword,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, nil, fmt.Errorf("redis connect failed: %v", err)
	}
	log.Println("redis connected")

	// 3. MinIO
	minioClient, err := minio.New(cfg.Data.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Data.MinioAccessKey, cfg.Data.MinioSecretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("minio init failed: %v", err)
	}

	bucket := cfg.Data.MinioBucket
	exists, err := minioClient.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, nil, fmt.Errorf("minio bucket check failed: %v", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, nil, fmt.Errorf("minio bucket create failed: %v", err)
		}
		log.Printf("minio bucket %q created", bucket)
	} else {
		log.Printf("minio connected (bucket %q exists)", bucket)
	}

	d := &Data{
		DB:        pgDB,
		Redis:     rdb,
		Minio:     minioClient,
		Bucket:    bucket,
		PublicURL: cfg.Data.MinioPublicURL,
	}

	cleanup := func() {
		log.Println("closing data layer resources...")
		if sqlDB, err := d.DB.DB(); err == nil {
			sqlDB.Close()
		}
		d.Redis.Close()
	}

	return d, cleanup, nil
}

// UploadObject stores an object under key and returns its public URL.
func (d *Data) UploadObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := d.Minio.PutObject(ctx, d.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return d.PublicURL + "/" + key, nil
}

// GetObject opens an object stream for download/preview.
func (d *Data) GetObject(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	stat, err := d.Minio.StatObject(ctx, d.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	obj, err := d.Minio.GetObject(ctx, d.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	return obj, stat.Size, nil
}

func (d *Data) RemoveObject(ctx context.Context, key string) error {
	return d.Minio.RemoveObject(ctx, d.Bucket, key, minio.RemoveObjectOptions{})
}

// ObjectKey recovers the bucket key from a stored public URL.
func (d *Data) ObjectKey(fileURL string) string {
	return strings.TrimPrefix(strings.TrimPrefix(fileURL, d.PublicURL), "/")
}

// AcquireLock takes a best-effort advisory lock via SET NX. The TTL bounds
// how long a crashed holder can block other starts for the same user.
func (d *Data) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return d.Redis.SetNX(ctx, key, 1, ttl).Result()
}

func (d *Data) ReleaseLock(ctx context.Context, key string) error {
	return d.Redis.Del(ctx, key).Err()
}
