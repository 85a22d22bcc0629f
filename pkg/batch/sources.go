package batch

import "github.com/umputun/robohub/pkg/domain"

// DefaultSources is the fixed catalog of robotics news feeds ensured by the seed stage
var DefaultSources = []domain.Source{
	{Name: "The Robot Report", URL: "https://www.therobotreport.com/feed/", Type: "rss"},
	{Name: "IEEE Spectrum Robotics", URL: "https://spectrum.ieee.org/robotics/fulltext/rss", Type: "rss"},
	{Name: "Robotics Business Review", URL: "https://www.roboticsbusinessreview.com/feed/", Type: "rss"},
	{Name: "Robotics Tomorrow", URL: "https://www.roboticstomorrow.com/rss/rss.xml", Type: "rss"},
	{Name: "RoboHub", URL: "https://robohub.org/feed/", Type: "rss"},
	{Name: "TechCrunch Robotics", URL: "https://techcrunch.com/category/robotics/feed/", Type: "rss"},
}
