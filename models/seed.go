package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SeedData is the sample content a fresh portal starts with.
type SeedData struct {
	Posts     []BlogPost
	Notices   []Notice
	Schemes   []Scheme
	Services  []Service
	Projects  []Project
	Tenders   []Tender
	Meetings  []Meeting
	Officials []Official
	Taxes     []TaxRecord
	Gallery   []GalleryItem
	Settings  []SiteSettings
}

var seededAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func seedMeta(id string) Meta {
	return Meta{ID: id, CreatedAt: seededAt, UpdatedAt: seededAt}
}

// Seed returns a fresh copy of the sample content.
func Seed() SeedData {
	return SeedData{
		Posts: []BlogPost{
			{
				Meta:     seedMeta("seed-post-1"),
				Title:    "Gram Sabha approves new water pipeline",
				Category: "Development",
				Content:  "The Gram Sabha held on 15 January approved the extension of the drinking water pipeline to the eastern wards.",
				Images:   datatypes.JSONSlice[string]{},
				Tags:     datatypes.JSONSlice[string]{"water", "gram sabha"},
				Status:   PostPublished,
				Date:     "2024-01-16",
				Author:   "Admin",
			},
			{
				Meta:     seedMeta("seed-post-2"),
				Title:    "Free health check-up camp",
				Category: "Health",
				Content:  "A free health check-up camp will be held at the Zilla Parishad school.",
				Images:   datatypes.JSONSlice[string]{},
				Tags:     datatypes.JSONSlice[string]{"health"},
				Status:   PostDraft,
				Date:     "2024-02-02",
				Author:   "Admin",
			},
		},
		Notices: []Notice{
			{Meta: seedMeta("seed-notice-1"), Text: "Property tax for 2023-24 is due by 31 March.", Date: "2024-01-20", IsNew: flag(true)},
			{Meta: seedMeta("seed-notice-2"), Text: "Gram Sabha on 26 January at 11 AM in the panchayat hall.", Date: "2024-01-10", IsNew: flag(false)},
		},
		Schemes: []Scheme{
			{
				Meta:          seedMeta("seed-scheme-1"),
				Title:         "Pradhan Mantri Awas Yojana",
				Description:   "Financial assistance for the construction of pucca houses.",
				Beneficiaries: "Households without a pucca house",
				Link:          "https://pmayg.nic.in",
			},
			{
				Meta:          seedMeta("seed-scheme-2"),
				Title:         "Swachh Bharat Mission",
				Description:   "Incentive for building individual household toilets.",
				Beneficiaries: "BPL and APL households without a toilet",
				Link:          "https://swachhbharatmission.gov.in",
			},
			{
				Meta:          seedMeta("seed-scheme-3"),
				Title:         "Jal Jeevan Mission",
				Description:   "Functional household tap connection for every rural home.",
				Beneficiaries: "All rural households",
				Link:          "https://jaljeevanmission.gov.in",
			},
		},
		Services: []Service{
			{Meta: seedMeta("seed-service-1"), Name: "Birth Certificate", Description: "Registration and issue of birth certificates.", Requirements: "Hospital discharge card, parents' Aadhaar", Fees: "Free within 21 days"},
			{Meta: seedMeta("seed-service-2"), Name: "Property Extract (Form 8)", Description: "Extract of the assessment register for a property.", Requirements: "Application, tax receipt", Fees: "Rs. 20"},
		},
		Projects: []Project{
			{Meta: seedMeta("seed-project-1"), Title: "Concrete road to the school", Status: ProjectCompleted},
			{Meta: seedMeta("seed-project-2"), Title: "Solar street lights", Status: ProjectOngoing},
		},
		Tenders: []Tender{
			{
				Meta:         seedMeta("seed-tender-1"),
				Title:        "Construction of community hall",
				RefNumber:    "GP/2024/01",
				ClosingDate:  "2024-03-15",
				DownloadLink: "#",
				Applicants:   datatypes.JSONSlice[Applicant]{},
			},
		},
		Meetings: []Meeting{
			{
				Meta:        seedMeta("seed-meeting-1"),
				Title:       "Republic Day Gram Sabha",
				Type:        GramSabha,
				Date:        "2024-01-26",
				Description: "Annual plan and beneficiary lists were read out.",
				Photos:      datatypes.JSONSlice[string]{},
			},
		},
		Officials: []Official{
			{Meta: seedMeta("seed-official-1"), Role: "Sarpanch", Name: "Sunita Patil", Phone: "9800000001", Category: CategoryCommittee},
			{Meta: seedMeta("seed-official-2"), Role: "Gram Sevak", Name: "Ramesh Jadhav", Phone: "9800000002", Category: CategoryStaff},
		},
		Taxes: []TaxRecord{
			{Meta: seedMeta("seed-tax-1"), HouseNo: "101", OwnerName: "Ganesh More", Address: "Ward 1", Mobile: "9800000011", HouseTax: 1200, WaterTax: 600, DueDate: "2024-03-31", Status: TaxPending},
			{Meta: seedMeta("seed-tax-2"), HouseNo: "102", OwnerName: "Lata Shinde", Address: "Ward 1", Mobile: "9800000012", HouseTax: 900, WaterTax: 600, DueDate: "2024-03-31", Status: TaxPaid},
		},
		Gallery: []GalleryItem{},
		Settings: []SiteSettings{
			{
				Meta: seedMeta("seed-settings"),
				Contact: Contact{
					Address: "Gram Panchayat Office, Chikhali",
					Phone:   "020-00000000",
					Email:   "grampanchayat.chikhali@example.org",
				},
				SliderImages: datatypes.JSONSlice[string]{},
			},
		},
	}
}

// Document encodes the seed as a blob document keyed by each collection's blob key.
func (s SeedData) Document() (map[string]json.RawMessage, error) {
	fields := map[string]any{
		BlogPosts.BlobKey:       s.Posts,
		Notices.BlobKey:         s.Notices,
		Schemes.BlobKey:         s.Schemes,
		Services.BlobKey:        s.Services,
		Projects.BlobKey:        s.Projects,
		Tenders.BlobKey:         s.Tenders,
		Meetings.BlobKey:        s.Meetings,
		Officials.BlobKey:       s.Officials,
		Taxes.BlobKey:           s.Taxes,
		Gallery.BlobKey:         s.Gallery,
		Settings.BlobKey:        s.Settings,
		RoleAssignments.BlobKey: []RoleAssignment{},
	}
	doc := make(map[string]json.RawMessage, len(fields))
	for key, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		doc[key] = raw
	}
	return doc, nil
}
