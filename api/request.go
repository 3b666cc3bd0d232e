package api

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"io"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"
)

// Params are the method parameters of one remote call. Keys with empty
// values are dropped before signing and sending.
type Params map[string]string

func (p Params) clone() Params {
	cloned := make(Params, len(p))
	for key, value := range p {
		if key == "" || value == "" {
			continue
		}
		cloned[key] = value
	}
	return cloned
}

func sortedParamKeys(params Params) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// signParams computes the api_sig parameter: the MD5 digest of the shared
// secret followed by every key/value pair concatenated in key order. The
// uploaded file never participates in the signature.
func signParams(secret string, params Params) string {
	var builder strings.Builder
	builder.WriteString(secret)
	for _, key := range sortedParamKeys(params) {
		builder.WriteString(key)
		builder.WriteString(params[key])
	}

	digest := md5.Sum([]byte(builder.String()))
	return hex.EncodeToString(digest[:])
}

func encodeFormBody(params Params) (io.Reader, string) {
	values := make(url.Values, len(params))
	for key, value := range params {
		values.Set(key, value)
	}
	return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded"
}

func encodeMultipartBody(params Params, filename string, file io.Reader) (io.Reader, string, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	for _, key := range sortedParamKeys(params) {
		if err := writer.WriteField(key, params[key]); err != nil {
			return nil, "", internalError("failed to encode form field", err)
		}
	}

	part, err := writer.CreateFormFile(fileParamName, filename)
	if err != nil {
		return nil, "", internalError("failed to create file part", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", transportError("failed to read upload content", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", internalError("failed to finalize multipart body", err)
	}
	return &buffer, writer.FormDataContentType(), nil
}
