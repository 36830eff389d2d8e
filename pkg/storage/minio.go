// Package storage 提供了与对象存储服务（如 MinIO）交互的功能。
package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"tube-chat-go/internal/config"
	"tube-chat-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient 是一个全局的 MinIO 客户端实例。
var MinioClient *minio.Client

// InitMinIO 初始化 MinIO 客户端并确保缩略图存储桶存在。
func InitMinIO(cfg config.MinIOConfig) {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("初始化 MinIO 客户端失败", err)
	}

	log.Info("MinIO 客户端初始化成功")

	// 检查存储桶 (Bucket) 是否存在，如果不存在则创建
	ctx := context.Background()
	bucketName := cfg.BucketName
	exists, err := MinioClient.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("检查 MinIO 存储桶失败", err)
	}

	if !exists {
		log.Infof("存储桶 '%s' 不存在，正在创建...", bucketName)
		err = MinioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			log.Fatal("创建 MinIO 存储桶失败", err)
		}
		log.Infof("存储桶 '%s' 创建成功", bucketName)
	} else {
		log.Infof("存储桶 '%s' 已存在", bucketName)
	}
}

// ResolveThumbnailURL 将缩略图定位符解析为可访问的 URL。
// 定位符已是 http(s) 地址时原样返回；否则视为桶内对象键，生成预签名链接。
func ResolveThumbnailURL(ctx context.Context, cfg config.MinIOConfig, locator string) string {
	if locator == "" || strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return locator
	}

	expire := time.Duration(cfg.URLExpireHours) * time.Hour
	if expire <= 0 {
		expire = 24 * time.Hour
	}

	presigned, err := MinioClient.PresignedGetObject(ctx, cfg.BucketName, locator, expire, url.Values{})
	if err != nil {
		// 预签名失败时退回定位符本身，列表展示降级而不是失败
		log.Warnf("生成缩略图预签名链接失败: key=%s, err=%v", locator, err)
		return locator
	}
	return presigned.String()
}
