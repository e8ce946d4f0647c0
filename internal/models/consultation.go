package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Consultation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID   primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID    primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	PatientName string             `bson:"patientName" json:"patientName"`
	DoctorName  string             `bson:"doctorName" json:"doctorName"`
	StartTime   time.Time          `bson:"startTime" json:"startTime"`
	EndTime     time.Time          `bson:"endTime" json:"endTime"`
	Status      string             `bson:"status" json:"status"`
}

const (
	ConsultationScheduled = "Scheduled"
	ConsultationCompleted = "Completed"
	ConsultationCancelled = "Cancelled"
)
