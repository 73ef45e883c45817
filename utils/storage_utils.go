package utils

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Подключение к PSCloud (S3-совместимый сервис).
var (
	accessKey = ""
	secretKey = ""
	bucket    = "vzaimo-uploads"
	region    = "us-east-1"
	endpoint  = "https://object.pscloud.io"
)

// ConfigureS3 sets the storage credentials from the application config.
func ConfigureS3(access, secret, bucketName, reg, endp string) {
	accessKey = access
	secretKey = secret
	if bucketName != "" {
		bucket = bucketName
	}
	if reg != "" {
		region = reg
	}
	if endp != "" {
		endpoint = endp
	}
}

func getS3Client() *s3.S3 {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentials(
			accessKey, secretKey, "",
		),
	}))
	return s3.New(sess)
}

// UploadFileToS3 stores the file under folder/fileName and returns a public URL.
func UploadFileToS3(file []byte, fileName string, folder string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", folder, fileName)

	s3Client := getS3Client()

	_, err := s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(filePath),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String("application/octet-stream"),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.object.pscloud.io/%s", bucket, filePath), nil
}
