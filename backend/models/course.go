package models

import "gorm.io/gorm"

// Course visibility states. Only Published courses show up in the catalog.
const (
	CourseStatusDraft     = "Draft"
	CourseStatusPublished = "Published"
)

type Category struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Courses     []Course
}

type Course struct {
	gorm.Model
	Name             string
	Description      string
	WhatYouWillLearn string
	Price            float64
	Thumbnail        string
	Status           string `gorm:"default:Draft"`
	Sold             int
	InstructorID     uint
	CategoryID       uint
	Sections         []Section `gorm:"constraint:OnDelete:CASCADE"`
	Reviews          []RatingAndReview
}

// Section groups lectures inside a course. Position is insertion order and
// drives navigation in the course player.
type Section struct {
	gorm.Model
	CourseID    uint
	Name        string
	Position    int
	SubSections []SubSection `gorm:"constraint:OnDelete:CASCADE"`
}

// SubSection is a single lecture. TimeDuration is kept as the raw string the
// uploader reported; consumers parse it as float minutes and fall back to 0.
type SubSection struct {
	gorm.Model
	SectionID    uint
	Title        string
	Description  string
	TimeDuration string `gorm:"default:0"`
	VideoURL     string
}

type RatingAndReview struct {
	gorm.Model
	UserID   uint
	CourseID uint
	Rating   int `gorm:"check:rating>=1 AND rating<=5"`
	Review   string
}
