package models

import "gorm.io/gorm"

// CourseProgress is the per-(user, course) record of completed lectures.
// The composite unique index backs the find-or-create contract: two
// concurrent first completions cannot leave duplicate rows behind.
type CourseProgress struct {
	gorm.Model
	UserID          uint         `gorm:"uniqueIndex:idx_progress_user_course"`
	CourseID        uint         `gorm:"uniqueIndex:idx_progress_user_course"`
	CompletedVideos []SubSection `gorm:"many2many:progress_completed_videos"`
}

// CartItem is one course sitting in a user's cart. The unique pair keeps a
// course from being added twice.
type CartItem struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex:idx_cart_user_course"`
	CourseID uint `gorm:"uniqueIndex:idx_cart_user_course"`
	Course   Course
}

// EnrolledCourse is the annotated entry the enrolled-courses listing returns.
type EnrolledCourse struct {
	Course                 Course  `json:"course"`
	TotalDurationInMinutes float64 `json:"totalDurationInMinutes"`
	TotalLectures          int     `json:"totalLectures"`
	CompletedLectures      int     `json:"completedLectures"`
	ProgressPercentage     int     `json:"progressPercentage"`
}
