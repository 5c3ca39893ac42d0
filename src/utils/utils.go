package utils

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	storage_go "github.com/supabase-community/storage-go"
)

// UploadToSupabaseStorage uploads a file to Supabase storage and returns the
// file's path, public URL, and content type. Callers scope the path by owner
// id so the bucket's per-owner write isolation applies.
func UploadToSupabaseStorage(file *multipart.FileHeader, path string) (string, string, string, error) {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return "", "", "", err
	}

	fileBody, err := file.Open()
	if err != nil {
		return "", "", "", err
	}
	defer fileBody.Close()

	fileBytes, err := io.ReadAll(fileBody)
	if err != nil {
		return "", "", "", err
	}

	// Reset the file pointer to the beginning
	if _, err = fileBody.Seek(0, io.SeekStart); err != nil {
		return "", "", "", err
	}

	// Detect content type based on file contents
	contentType := http.DetectContentType(fileBytes)

	_, err = storageClient.UploadFile(bucketName, path, fileBody, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		return "", "", "", err
	}

	response := storageClient.GetPublicUrl(bucketName, path)
	fileURL := response.SignedURL

	return path, fileURL, contentType, nil
}

// UpdateToSupabaseStorage replaces an existing file in Supabase storage.
func UpdateToSupabaseStorage(file *multipart.FileHeader, path string) (string, string, string, error) {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return "", "", "", err
	}

	fileBody, err := file.Open()
	if err != nil {
		return "", "", "", err
	}
	defer fileBody.Close()

	fileBytes, err := io.ReadAll(fileBody)
	if err != nil {
		return "", "", "", err
	}

	if _, err = fileBody.Seek(0, io.SeekStart); err != nil {
		return "", "", "", err
	}

	contentType := http.DetectContentType(fileBytes)

	_, err = storageClient.UpdateFile(bucketName, path, fileBody, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		return "", "", "", err
	}

	response := storageClient.GetPublicUrl(bucketName, path)
	fileURL := response.SignedURL

	return path, fileURL, contentType, nil
}

// DeleteFromSupabaseStorage deletes a file from Supabase storage given the file path.
func DeleteFromSupabaseStorage(path string) error {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return err
	}

	_, err = storageClient.RemoveFile(bucketName, []string{path})
	return err
}
