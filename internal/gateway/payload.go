// internal/gateway/payload.go
package gateway

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
)

// KeyStyle selects how nested fields are named in a multipart body.
type KeyStyle int

const (
	// DotKeys flattens to staf.medecins.medc1
	DotKeys KeyStyle = iota
	// BracketKeys flattens to staf[medecins][medc1]
	BracketKeys
)

func ParseKeyStyle(value string) (KeyStyle, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "dot":
		return DotKeys, nil
	case "bracket":
		return BracketKeys, nil
	}
	return DotKeys, fmt.Errorf("unknown key style %q", value)
}

func (s KeyStyle) join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if s == BracketKeys {
		return prefix + "[" + key + "]"
	}
	return prefix + "." + key
}

// File is an attachment submitted with a payload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Payload is a request body. It is sent as JSON unless a file is attached,
// in which case Body is flattened into multipart form fields.
type Payload struct {
	Body  any
	Files []File
	// KeyStyle overrides the client default when set.
	KeyStyle *KeyStyle
}

func JSONPayload(body any) *Payload {
	return &Payload{Body: body}
}

func (p *Payload) Attach(file File) *Payload {
	if len(file.Data) > 0 {
		p.Files = append(p.Files, file)
	}
	return p
}

func (p *Payload) IsMultipart() bool {
	return len(p.Files) > 0
}

func (p *Payload) encode(defaultStyle KeyStyle) ([]byte, string, error) {
	if !p.IsMultipart() {
		if p.Body == nil {
			return []byte("{}"), "application/json", nil
		}
		data, err := json.Marshal(p.Body)
		if err != nil {
			return nil, "", err
		}
		return data, "application/json", nil
	}

	style := defaultStyle
	if p.KeyStyle != nil {
		style = *p.KeyStyle
	}
	fields, err := p.Fields(style)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, field := range fields {
		if err := writer.WriteField(field.Key, field.Value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range p.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(file.Field), escapeQuotes(file.Name)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

type FormField struct {
	Key   string
	Value string
}

// Fields flattens Body into form fields, sorted by key. Null values are
// dropped.
func (p *Payload) Fields(style KeyStyle) ([]FormField, error) {
	if p.Body == nil {
		return nil, nil
	}
	data, err := json.Marshal(p.Body)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, err
	}
	var fields []FormField
	flatten(style, "", tree, &fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields, nil
}

func flatten(style KeyStyle, prefix string, value any, out *[]FormField) {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			flatten(style, style.join(prefix, key), child, out)
		}
	case []any:
		for i, child := range v {
			flatten(style, style.join(prefix, strconv.Itoa(i)), child, out)
		}
	case nil:
	case string:
		*out = append(*out, FormField{Key: prefix, Value: v})
	case bool:
		*out = append(*out, FormField{Key: prefix, Value: strconv.FormatBool(v)})
	default:
		*out = append(*out, FormField{Key: prefix, Value: fmt.Sprint(v)})
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
