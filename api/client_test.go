package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempVideo(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestUpload_SendsMultipartFileAndReportsProgress(t *testing.T) {
	var gotField, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/video/upload", r.URL.Path)

		mr, err := r.MultipartReader()
		require.NoError(t, err)
		part, err := mr.NextPart()
		require.NoError(t, err)
		gotField = part.FormName()
		gotFilename = part.FileName()
		n, err := io.Copy(io.Discard, part)
		require.NoError(t, err)
		require.EqualValues(t, 1<<16, n)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"File processed successfully","filename":"clip.mp4","events_saved":4}`)
	}))
	defer srv.Close()

	path := writeTempVideo(t, "clip.mp4", 1<<16)

	var calls int
	var lastSent, lastTotal int64
	c := NewClient(srv.URL, nil)
	res, err := c.Upload(context.Background(), path, func(sent, total int64) {
		calls++
		lastSent, lastTotal = sent, total
	})
	require.NoError(t, err)
	require.Equal(t, "file", gotField)
	require.Equal(t, "clip.mp4", gotFilename)
	require.Equal(t, "clip.mp4", res.Filename)
	require.Equal(t, 4, res.EventsSaved)
	require.Greater(t, calls, 0)
	require.EqualValues(t, 1<<16, lastSent)
	require.EqualValues(t, 1<<16, lastTotal)
}

func TestUpload_BackendErrorBecomesUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"ffmpeg exploded"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Upload(context.Background(), writeTempVideo(t, "a.mp4", 128), nil)
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "ffmpeg exploded", ue.Message)
}

func TestUpload_MissingFile(t *testing.T) {
	c := NewClient("http://localhost:1", nil)
	_, err := c.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), nil)
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
}

func TestQuery_PostsQueryAndFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"query":"explosion","video_filename":"clip.mp4"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"events":[{"id":1,"timestamp":12.4,"description":"Explosion","similarity":0.91}],"total_results":1}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	resp, err := c.Query(context.Background(), "clip.mp4", "explosion")
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	require.Equal(t, "Explosion", resp.Events[0].Description)
	require.NotNil(t, resp.Events[0].Similarity)
	require.InDelta(t, 0.91, *resp.Events[0].Similarity, 1e-9)
	require.Equal(t, 1, resp.TotalResults)
}

func TestQuery_EmptyEventListIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"events":[],"total_results":0}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	resp, err := c.Query(context.Background(), "clip.mp4", QueryAllEvents)
	require.NoError(t, err)
	require.Empty(t, resp.Events)
}

func TestQuery_MissingEventsIsContractViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"total_results":0}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Query(context.Background(), "clip.mp4", "anything")
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	require.Equal(t, "Received an unexpected response from the server.", qe.Message)
}

func TestQuery_ValidationErrorsAreFlattened(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":[{"msg":"field required"},{"msg":"query too long"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Query(context.Background(), "clip.mp4", "")
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	require.Equal(t, "field required, query too long", qe.Message)
}

func TestQuery_TransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)
	_, err := c.Query(context.Background(), "clip.mp4", "x")
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	require.NotEmpty(t, qe.Message)
	require.Error(t, qe.Err)
}

func TestEvents_FetchesRawList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/video/events/clip.mp4", r.URL.Path)
		io.WriteString(w, `[{"id":1,"timestamp":5,"description":"Intro","similarity":1.0}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	events, err := c.Events(context.Background(), "clip.mp4")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Intro", events[0].Description)
}
