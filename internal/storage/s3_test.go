package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	getErr  error
	putErr  error
	lastPut *s3.PutObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lastPut = in
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = body
	return &manager.UploadOutput{}, nil
}

func newFakeService() (*S3Service, *fakeS3) {
	fake := &fakeS3{objects: map[string][]byte{}}
	return &S3Service{client: fake, uploader: fake}, fake
}

func TestS3Service_PutThenGet(t *testing.T) {
	svc, fake := newFakeService()
	ctx := context.Background()

	require.NoError(t, svc.PutObject(ctx, "profiles", "data/profiles.json", []byte("[]"), "application/json"))
	require.Equal(t, "application/json", aws.ToString(fake.lastPut.ContentType))
	require.Equal(t, types.ObjectCannedACLPrivate, fake.lastPut.ACL)

	body, err := svc.GetObject(ctx, "profiles", "data/profiles.json")
	require.NoError(t, err)
	require.Equal(t, "[]", string(body))
}

func TestS3Service_GetMissingKey(t *testing.T) {
	svc, _ := newFakeService()

	_, err := svc.GetObject(context.Background(), "profiles", "nope.json")
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Service_Errors(t *testing.T) {
	svc, fake := newFakeService()
	ctx := context.Background()

	_, err := svc.GetObject(ctx, "", "k")
	require.Error(t, err)
	require.Error(t, svc.PutObject(ctx, "", "k", nil, ""))

	boom := errors.New("connection reset")
	fake.getErr = boom
	fake.putErr = boom

	_, err = svc.GetObject(ctx, "b", "k")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrObjectNotFound)
	require.ErrorIs(t, svc.PutObject(ctx, "b", "k", []byte("[]"), ""), boom)
}
