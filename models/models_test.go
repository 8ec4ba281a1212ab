package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chikhali-gp/portal/backend/errs"
)

var now = time.Date(2024, time.May, 4, 10, 30, 0, 0, time.UTC)

func TestBlogPostDefaults(t *testing.T) {
	p := &BlogPost{Title: "Road repair"}
	p.ApplyDefaults(now)

	if p.Status != PostDraft {
		t.Fatalf("status = %q, want draft", p.Status)
	}
	if p.Date != "2024-05-04" {
		t.Fatalf("date = %q, want 2024-05-04", p.Date)
	}
	if p.Author != "Admin" || p.Category != "General" {
		t.Fatalf("author/category = %q/%q", p.Author, p.Category)
	}
	if p.Images == nil || p.Tags == nil {
		t.Fatalf("lists must default to empty, got images=%v tags=%v", p.Images, p.Tags)
	}
	raw, _ := json.Marshal(p)
	var doc map[string]any
	_ = json.Unmarshal(raw, &doc)
	if _, ok := doc["images"].([]any); !ok {
		t.Fatalf("images should encode as a JSON array, got %v", doc["images"])
	}
}

func TestDefaultsKeepExplicitValues(t *testing.T) {
	tender := &Tender{Title: "Hall", ClosingDate: "2024-06-01", DownloadLink: "https://x/doc.pdf"}
	tender.ApplyDefaults(now)
	if tender.DownloadLink != "https://x/doc.pdf" {
		t.Fatalf("download link overwritten: %q", tender.DownloadLink)
	}

	meeting := &Meeting{Title: "Ward meeting", Type: WardSabha, Date: "2024-02-02"}
	meeting.ApplyDefaults(now)
	if meeting.Type != WardSabha {
		t.Fatalf("meeting type overwritten: %q", meeting.Type)
	}

	notice := &Notice{Text: "Water cut"}
	notice.ApplyDefaults(now)
	if !notice.MarkedNew() || notice.Date != "2024-05-04" {
		t.Fatalf("fresh notice = %+v", notice)
	}

	old := &Notice{Text: "Last year's sabha"}
	if err := Merge(old, Patch{"isNew": false}); err != nil {
		t.Fatal(err)
	}
	old.ApplyDefaults(now)
	if old.MarkedNew() || old.IsNew == nil {
		t.Fatalf("explicit isNew=false overwritten: %+v", old)
	}
}

func TestRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		record interface{ Validate() error }
		field  string
	}{
		{"blog title", &BlogPost{Status: PostDraft}, "title"},
		{"notice text", &Notice{}, "text"},
		{"scheme title", &Scheme{}, "title"},
		{"service name", &Service{}, "name"},
		{"project title", &Project{Status: ProjectPlanned}, "title"},
		{"tender closing date", &Tender{Title: "Hall"}, "closingDate"},
		{"meeting date", &Meeting{Title: "Sabha", Type: GramSabha}, "date"},
		{"official role", &Official{Name: "Asha", Category: CategoryStaff}, "role"},
		{"tax owner", &TaxRecord{HouseNo: "7", Status: TaxPaid}, "ownerName"},
		{"gallery image", &GalleryItem{}, "image"},
		{"role email", &RoleAssignment{Role: RoleAdmin}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.record.Validate()
			if !errs.IsMissingRequiredFieldError(err) {
				t.Fatalf("Validate() = %v, want missing %s", err, tc.field)
			}
			var apiErr *errs.ApiErr
			if e, ok := err.(*errs.ApiErr); ok {
				apiErr = e
			}
			if apiErr == nil || apiErr.Field != tc.field {
				t.Fatalf("field = %+v, want %s", apiErr, tc.field)
			}
		})
	}
}

func TestEnumValidation(t *testing.T) {
	if err := (&Project{Title: "x", Status: "Abandoned"}).Validate(); !errs.IsInvalidFieldError(err) {
		t.Fatalf("project status: %v", err)
	}
	if err := (&Meeting{Title: "x", Date: "2024-01-01", Type: "Lok Sabha"}).Validate(); !errs.IsInvalidFieldError(err) {
		t.Fatalf("meeting type: %v", err)
	}
	if err := (&Tender{Title: "x", ClosingDate: "15/03/2024"}).Validate(); !errs.IsInvalidFieldError(err) {
		t.Fatalf("closing date format: %v", err)
	}
}

func TestBlogStatusTransition(t *testing.T) {
	draft := &BlogPost{Status: PostDraft}
	published := &BlogPost{Status: PostPublished}

	if err := draft.CheckTransition(published); err != nil {
		t.Fatalf("draft -> published: %v", err)
	}
	if err := published.CheckTransition(&BlogPost{Status: PostPublished}); err != nil {
		t.Fatalf("published -> published: %v", err)
	}
	if err := published.CheckTransition(draft); !errs.IsInvalidFieldError(err) {
		t.Fatalf("published -> draft should be rejected, got %v", err)
	}
}

func TestVideoSourcesAreExclusive(t *testing.T) {
	post := BlogPost{Title: "Clip", Status: PostDraft, VideoURL: "https://cdn/video.mp4"}

	youtube := Patch{"youtubeUrl": "https://youtu.be/abc"}
	if err := NormalizeVideo(youtube); err != nil {
		t.Fatal(err)
	}
	if err := Merge(&post, youtube); err != nil {
		t.Fatal(err)
	}
	if post.VideoURL != "" || post.YoutubeURL != "https://youtu.be/abc" {
		t.Fatalf("after youtube link: video=%q youtube=%q", post.VideoURL, post.YoutubeURL)
	}

	upload := Patch{"videoUrl": "https://cdn/other.mp4"}
	if err := NormalizeVideo(upload); err != nil {
		t.Fatal(err)
	}
	if err := Merge(&post, upload); err != nil {
		t.Fatal(err)
	}
	if post.YoutubeURL != "" || post.VideoURL != "https://cdn/other.mp4" {
		t.Fatalf("after upload: video=%q youtube=%q", post.VideoURL, post.YoutubeURL)
	}

	if err := NormalizeVideo(Patch{"videoUrl": "a", "youtubeUrl": "b"}); !errs.IsInvalidFieldError(err) {
		t.Fatalf("both sources: %v", err)
	}
	both := &BlogPost{Title: "x", Status: PostDraft, VideoURL: "a", YoutubeURL: "b"}
	if err := both.Validate(); err == nil {
		t.Fatal("a post with both video sources should not validate")
	}
}

func TestMergeIsShallowUpsert(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notice := Notice{Meta: Meta{ID: "n1", CreatedAt: created}, Text: "old", Date: "2024-01-01"}

	err := Merge(&notice, Patch{"id": "hijack", "createdAt": "2030-01-01T00:00:00Z", "image": "https://img/n.png"})
	if err != nil {
		t.Fatal(err)
	}
	if notice.ID != "n1" || !notice.CreatedAt.Equal(created) {
		t.Fatalf("identity changed: %+v", notice.Meta)
	}
	if notice.Image != "https://img/n.png" || notice.Text != "old" {
		t.Fatalf("merge result %+v", notice)
	}

	// disjoint patches compose, overlapping ones are last-write-wins
	a, b := notice, notice
	_ = Merge(&a, Patch{"text": "first"})
	_ = Merge(&a, Patch{"isNew": true})
	_ = Merge(&b, Patch{"text": "first", "isNew": true})
	if a.Text != b.Text || a.MarkedNew() != b.MarkedNew() {
		t.Fatalf("disjoint merges differ: %+v vs %+v", a, b)
	}
	_ = Merge(&a, Patch{"text": "second"})
	if a.Text != "second" {
		t.Fatalf("last write should win, got %q", a.Text)
	}
}

func TestMergeReplacesLists(t *testing.T) {
	post := BlogPost{Tags: []string{"a", "b", "c"}}
	if err := Merge(&post, Patch{"tags": []any{"z"}}); err != nil {
		t.Fatal(err)
	}
	if len(post.Tags) != 1 || post.Tags[0] != "z" {
		t.Fatalf("tags = %v, want [z]", post.Tags)
	}
}

func TestMergeRejectsWrongType(t *testing.T) {
	tax := TaxRecord{HouseNo: "1", OwnerName: "A", HouseTax: 10}
	err := Merge(&tax, Patch{"houseTax": "lots"})
	if !errs.IsInvalidFieldError(err) {
		t.Fatalf("Merge() = %v, want invalid field", err)
	}
	if tax.HouseTax != 10 {
		t.Fatalf("record changed on failed merge: %v", tax.HouseTax)
	}
}

func TestTaxTotalDue(t *testing.T) {
	tax := TaxRecord{HouseTax: 1250.5, WaterTax: 300}
	if got := tax.TotalDue(); got != 1550.5 {
		t.Fatalf("TotalDue() = %v", got)
	}
	raw, _ := json.Marshal(tax)
	var stored map[string]any
	_ = json.Unmarshal(raw, &stored)
	if _, ok := stored["totalDue"]; ok {
		t.Fatal("totalDue must not be part of the stored shape")
	}
	raw, _ = json.Marshal(ViewTax(tax))
	var view map[string]any
	_ = json.Unmarshal(raw, &view)
	if view["totalDue"] != 1550.5 {
		t.Fatalf("view totalDue = %v", view["totalDue"])
	}
}

func TestTaxMatches(t *testing.T) {
	tax := TaxRecord{HouseNo: "A-12", OwnerName: "Ganesh More"}
	for _, q := range []string{"ganesh", "more", "a-1"} {
		if !tax.Matches(q) {
			t.Errorf("Matches(%q) = false", q)
		}
	}
	if tax.Matches("patil") {
		t.Error("Matches(patil) = true")
	}
}

func TestSeedSchemes(t *testing.T) {
	want := []string{"Pradhan Mantri Awas Yojana", "Swachh Bharat Mission", "Jal Jeevan Mission"}
	got := Seed().Schemes
	if len(got) != len(want) {
		t.Fatalf("seeded %d schemes, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.Title != want[i] {
			t.Errorf("scheme %d = %q, want %q", i, s.Title, want[i])
		}
		if err := s.Validate(); err != nil {
			t.Errorf("seed scheme %d invalid: %v", i, err)
		}
	}
}

func TestSeedDocumentHasEveryCollection(t *testing.T) {
	doc, err := Seed().Document()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []Collection{BlogPosts, Notices, Schemes, Services, Projects, Tenders, Meetings, Officials, Taxes, Gallery, Settings, RoleAssignments} {
		raw, ok := doc[c.BlobKey]
		if !ok {
			t.Fatalf("seed document lacks %q", c.BlobKey)
		}
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			t.Fatalf("%q is not a list: %v", c.BlobKey, err)
		}
	}
}
