package inference

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil || r.Method != http.MethodPost {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		if string(data) != "image-bytes" {
			http.Error(w, "unexpected payload", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPDetector_Detect(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"detections":[
		{"x1":0,"y1":0,"x2":10,"y2":10,"confidence":0.4},
		{"x1":5,"y1":5,"x2":40,"y2":15,"confidence":0.95},
		{"x1":1,"y1":1,"x2":2,"y2":2,"confidence":0.1}
	]}`)

	d := NewHTTPDetector(srv.URL+"/predict", 0.25, 5*time.Second)
	boxes, err := d.Detect(context.Background(), []byte("image-bytes"))
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	require.Equal(t, 0.95, boxes[0].Confidence)
	require.Equal(t, 35.0, boxes[0].Width())
	require.Equal(t, 10.0, boxes[0].Height())
	require.Equal(t, 0.4, boxes[1].Confidence)

	require.NoError(t, d.CheckHealth(context.Background()))
}

func TestHTTPDetector_Empty(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"detections":[]}`)

	d := NewHTTPDetector(srv.URL+"/predict", 0.25, 5*time.Second)
	boxes, err := d.Detect(context.Background(), []byte("image-bytes"))
	require.NoError(t, err)
	require.Empty(t, boxes)
}

func TestHTTPDetector_ServerError(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error":"model not loaded"}`)

	d := NewHTTPDetector(srv.URL+"/predict", 0.25, 5*time.Second)
	_, err := d.Detect(context.Background(), []byte("image-bytes"))
	require.ErrorContains(t, err, "model not loaded")
	require.Error(t, d.CheckHealth(context.Background()))
}

func TestHTTPDetector_BadJSON(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"detections":`)

	d := NewHTTPDetector(srv.URL+"/predict", 0.25, 5*time.Second)
	_, err := d.Detect(context.Background(), []byte("image-bytes"))
	require.ErrorContains(t, err, "decode response")
}

func TestHealthURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:5000/predict":             "http://localhost:5000/health",
		"http://localhost:5000/predict/":            "http://localhost:5000/health",
		"http://localhost:5000/predict?model=v2":    "http://localhost:5000/health",
		"http://infer.local/api/v1/predict#section": "http://infer.local/api/v1/health",
		"http://infer.local":                        "http://infer.local/health",
	}
	for in, want := range cases {
		got, err := healthURL(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}

	_, err := healthURL("http://bad host/predict")
	require.Error(t, err)
}

func TestHTTPDetector_CheckHealthWithTrailingSlash(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"detections":[]}`)

	d := NewHTTPDetector(srv.URL+"/predict/?model=v2", 0.25, 5*time.Second)
	require.NoError(t, d.CheckHealth(context.Background()))
}
