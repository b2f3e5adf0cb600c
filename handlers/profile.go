package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/draw"

	"convonest/apiclient"
	"convonest/identity"
	"convonest/models"
)

type ProfileHandler struct {
	api      *apiclient.Client
	idp      *identity.Client
	sessions *identity.Store

	uploadURL string
	uploadKey string
	http      *http.Client
}

func NewProfileHandler(api *apiclient.Client, idp *identity.Client, sessions *identity.Store, uploadURL, uploadKey string) *ProfileHandler {
	return &ProfileHandler{
		api:       api,
		idp:       idp,
		sessions:  sessions,
		uploadURL: uploadURL,
		uploadKey: uploadKey,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	email := c.GetString("sessionEmail")

	profile, err := h.api.Profile(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateAboutMe(c *gin.Context) {
	email := c.GetString("sessionEmail")

	var req models.AboutMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.api.UpdateAboutMe(c.Request.Context(), email, req.AboutMe); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

const avatarMaxDim = 512

// UploadAvatar recompresses the uploaded image, ships it to the image host,
// and points both the identity profile and the backend user row at the
// returned public URL.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	defer file.Close()

	compressed, err := compressImage(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image format"})
		return
	}

	publicURL, err := h.uploadImage(compressed)
	if err != nil {
		slog.Error("image upload failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Image upload failed"})
		return
	}

	sess, _ := h.sessions.Current()
	if sess != nil {
		if err := h.idp.UpdateProfile(c.Request.Context(), sess, sess.DisplayName, publicURL); err != nil {
			slog.Warn("identity profile update failed", "err", err)
		}
	}

	user := models.User{
		Email: c.GetString("sessionEmail"),
		Name:  c.GetString("sessionName"),
		Image: publicURL,
	}
	if err := h.api.UpsertUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save profile image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": publicURL})
}

// compressImage decodes any supported format, scales it down to the avatar
// bound, and re-encodes it as a smaller JPEG.
func compressImage(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	w, ht := bounds.Dx(), bounds.Dy()
	if w > avatarMaxDim || ht > avatarMaxDim {
		scale := float64(avatarMaxDim) / float64(max(w, ht))
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(ht)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 75}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *ProfileHandler) uploadImage(data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "avatar.jpg")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if h.uploadKey != "" {
		_ = writer.WriteField("key", h.uploadKey)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, h.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := h.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("image host status %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Data.URL == "" {
		return "", fmt.Errorf("image host returned no url")
	}
	return out.Data.URL, nil
}
