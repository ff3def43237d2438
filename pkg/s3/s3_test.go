package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL_AWS(t *testing.T) {
	url := objectURL("", "sa-east-1", "veltta-content", "contents/a.png", false)
	assert.Equal(t, "https://veltta-content.s3.sa-east-1.amazonaws.com/contents/a.png", url)
}

func TestObjectURL_DefaultRegion(t *testing.T) {
	url := objectURL("", "", "veltta-content", "a.png", false)
	assert.Equal(t, "https://veltta-content.s3.us-east-1.amazonaws.com/a.png", url)
}

func TestObjectURL_MinIO(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/veltta-content/a.png", objectURL("http://localhost:9000", "us-east-1", "veltta-content", "a.png", true))
	assert.Equal(t, "https://minio.internal/veltta-content/a.png", objectURL("https://minio.internal", "us-east-1", "veltta-content", "a.png", false))
}
