package database

import (
	"github.com/chikhali-gp/portal/backend/models"
)

type Database struct {
	backend       Backend
	blogPostRepo  Repo[models.BlogPost]
	noticeRepo    Repo[models.Notice]
	schemeRepo    Repo[models.Scheme]
	serviceRepo   Repo[models.Service]
	projectRepo   Repo[models.Project]
	tenderRepo    *TenderRepo
	meetingRepo   Repo[models.Meeting]
	officialRepo  Repo[models.Official]
	taxRecordRepo *TaxRecordRepo
	galleryRepo   Repo[models.GalleryItem]
	settingsRepo  *SettingsRepo
	roleRepo      Repo[models.RoleAssignment]
}

// New initializes a new Database struct with each repository sharing one backing store
func New(b Backend) Database {
	return Database{
		backend:       b,
		blogPostRepo:  NewRepo[models.BlogPost](b),
		noticeRepo:    NewRepo[models.Notice](b),
		schemeRepo:    NewRepo[models.Scheme](b),
		serviceRepo:   NewRepo[models.Service](b),
		projectRepo:   NewRepo[models.Project](b),
		tenderRepo:    NewTenderRepo(NewRepo[models.Tender](b)),
		meetingRepo:   NewRepo[models.Meeting](b),
		officialRepo:  NewRepo[models.Official](b),
		taxRecordRepo: NewTaxRecordRepo(b),
		galleryRepo:   NewRepo[models.GalleryItem](b),
		settingsRepo:  NewSettingsRepo(NewRepo[models.SiteSettings](b)),
		roleRepo:      NewRepo[models.RoleAssignment](b),
	}
}

// Accessor methods for each repository

func (d Database) BlogPostRepo() Repo[models.BlogPost] {
	return d.blogPostRepo
}

func (d Database) NoticeRepo() Repo[models.Notice] {
	return d.noticeRepo
}

func (d Database) SchemeRepo() Repo[models.Scheme] {
	return d.schemeRepo
}

func (d Database) ServiceRepo() Repo[models.Service] {
	return d.serviceRepo
}

func (d Database) ProjectRepo() Repo[models.Project] {
	return d.projectRepo
}

func (d Database) TenderRepo() *TenderRepo {
	return d.tenderRepo
}

func (d Database) MeetingRepo() Repo[models.Meeting] {
	return d.meetingRepo
}

func (d Database) OfficialRepo() Repo[models.Official] {
	return d.officialRepo
}

func (d Database) TaxRecordRepo() *TaxRecordRepo {
	return d.taxRecordRepo
}

func (d Database) GalleryRepo() Repo[models.GalleryItem] {
	return d.galleryRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}

func (d Database) RoleRepo() Repo[models.RoleAssignment] {
	return d.roleRepo
}

// Kind names the backing store in use.
func (d Database) Kind() string {
	return d.backend.Kind()
}

func (d Database) Close() error {
	return d.backend.Close()
}
