package document

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type stubPutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (s *stubPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.input = in
	b, _ := io.ReadAll(in.Body)
	s.body = string(b)
	return &s3.PutObjectOutput{}, s.err
}

func TestText_PlainUpload(t *testing.T) {
	u := Upload{Name: "policy.txt", ContentType: "text/plain; charset=utf-8", Data: []byte("  Policy number HX-1  ")}
	if u.IsPDF() {
		t.Fatalf("text upload detected as pdf")
	}
	got, err := Text(u)
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if CharCount(got) != len("Policy number HX-1") {
		t.Fatalf("unexpected char count %d", CharCount(got))
	}
}

func TestUpload_IsPDF(t *testing.T) {
	cases := []Upload{
		{Name: "a.bin", ContentType: "application/pdf"},
		{Name: "scan.PDF"},
		{Name: "noext", Data: []byte("%PDF-1.7 ...")},
	}
	for _, u := range cases {
		if !u.IsPDF() {
			t.Fatalf("expected pdf for %+v", u.Name)
		}
	}
}

func TestText_BrokenPDF(t *testing.T) {
	if _, err := Text(Upload{Name: "bad.pdf", Data: []byte("not really a pdf")}); err == nil {
		t.Fatalf("expected error for broken pdf")
	}
}

// malformedPDF pads a bogus body so the reader reaches the trailer.
func malformedPDF(trailer string) []byte {
	body := "%PDF-1.4\n" + strings.Repeat("% padding line\n", 20)
	return []byte(body + trailer + "\nstartxref\n9\n%%EOF\n")
}

func TestText_MalformedTrailerIsError(t *testing.T) {
	trailers := []string{
		"xref\n0 1\n0000000000 65535 f \ntrailer\n<< /Size 1 ] >>",
		"xref\n0 1\n0000000000 65535 f \ntrailer\n<< /Size 1 /Root <zz> >>",
		"trailer\n<< /Size",
	}
	for i, tr := range trailers {
		u := Upload{Name: "broken.pdf", ContentType: "application/pdf", Data: malformedPDF(tr)}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("case %d: Text panicked: %v", i, r)
				}
			}()
			if _, err := Text(u); err == nil {
				t.Fatalf("case %d: expected error for malformed pdf", i)
			}
		}()
	}
}

func TestExcerpt_Truncates(t *testing.T) {
	long := strings.Repeat("₹", maxTextChars)
	got := Excerpt(long)
	if len(got) > maxTextChars {
		t.Fatalf("excerpt too long: %d", len(got))
	}
	if !strings.HasPrefix(long, got) {
		t.Fatalf("excerpt should be a prefix")
	}
}

func TestObjectKey_Sanitizes(t *testing.T) {
	if got := ObjectKey("01H", "../../My Policy (1).pdf"); got != "documents/01H/My_Policy_1_.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := ObjectKey("01H", "///"); got != "documents/01H/document" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestS3Archive_Store(t *testing.T) {
	put := &stubPutter{}
	a := newS3Archive(put, "docs", nil)
	key, err := a.Store(context.Background(), Upload{Name: "p.pdf", ContentType: "application/pdf", Data: []byte("%PDF-")})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasPrefix(key, "documents/") || !strings.HasSuffix(key, "/p.pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if *put.input.Bucket != "docs" || *put.input.Key != key || put.body != "%PDF-" {
		t.Fatalf("unexpected put %+v", put.input)
	}

	put.err = errors.New("denied")
	if _, err := a.Store(context.Background(), Upload{Name: "p.pdf"}); err == nil {
		t.Fatalf("expected error")
	}
}
