package upload

import (
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
)

var templates = []upload.Template{
	{
		Type:        upload.TypeLocationMap,
		Filename:    "LocationMap_Template.csv",
		Description: "Define departments and their corresponding locations",
		Content: `Department,Location1,Location2,Location3
Dealerships,Geelong Sales,Launceston Sales,Melbourne Sales
Production,Factory Floor,Quality Control,Warehouse
Administration,Head Office,Regional Office,`,
	},
	{
		Type:        upload.TypeOvertime,
		Filename:    "Overtime_Template.csv",
		Description: "Upload overtime hours and amounts by department and location",
		Content: `Department,Location,Date,OT_Hours,OT_Amount
Dealerships,Geelong Sales,2025-07-02,7.5,$1111.00
Dealerships,Geelong Sales,2025-07-09,8.0,$1234.56
Production,Factory Floor,2025-07-02,12.0,$1800.00`,
	},
	{
		Type:        upload.TypePayment,
		Filename:    "Payment_Template.csv",
		Description: "Upload employee payment information by department and location",
		Content: `Department,Location,EmployeeID,Name,Date,Payment
Dealerships,Geelong Sales,11169436,Emma Thomson,2025-07-02,$1200.00
Dealerships,Geelong Sales,11169436,Emma Thomson,2025-07-09,$1250.00
Production,Factory Floor,12345678,John Smith,2025-07-02,$1500.00`,
	},
	{
		Type:        upload.TypeAbsenteeism,
		Filename:    "Absenteeism_Template.csv",
		Description: "Upload employee absenteeism data by department and location",
		Content: `Department,Location,EmployeeID,Name,Date,Absenteeism
Dealerships,Geelong Sales,11169436,Emma Thomson,2025-07-02,0.2
Dealerships,Geelong Sales,11169436,Emma Thomson,2025-07-09,0.25
Production,Factory Floor,12345678,John Smith,2025-07-02,1.5`,
	},
	{
		Type:        upload.TypeStarterTermination,
		Filename:    "StarterTermination_Template.csv",
		Description: "Upload new hires and terminations by department and position",
		Content: `Type,Date,Department,Position,EmployeeID,Name
starter,2025-07-02,Production,Production_team_member,12345,John Doe
termination,2025-07-09,Administration,Admin_assistant,54321,Jane Smith`,
	},
}

func (s *uploadServiceImpl) Templates() []upload.Template {
	out := make([]upload.Template, len(templates))
	for i, t := range templates {
		t.Content = ""
		out[i] = t
	}
	return out
}

func (s *uploadServiceImpl) Template(collectionType string) (upload.Template, error) {
	for _, t := range templates {
		if t.Type == collectionType {
			return t, nil
		}
	}
	return upload.Template{}, upload.ErrTemplateNotFound
}
