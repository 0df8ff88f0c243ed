package taxonomy

// roleTable is the curated set of canonical roles.
var roleTable = map[string]RoleProfile{ //nolint:gochecknoglobals // static read-only table
	"Software Engineer": {
		Subjects:  []string{"Web Development", "Programming Languages", "Software Engineering"},
		Skills:    []string{"Python", "JavaScript", "Java", "React", "Node.js", "SQL", "Git", "Docker"},
		NextRoles: []string{"Senior Software Engineer", "Full Stack Developer", "Backend Engineer", "DevOps Engineer"},
	},
	"Data Scientist": {
		Subjects:  []string{"Data Science", "Machine Learning", "Business Analytics"},
		Skills:    []string{"Python", "R", "SQL", "Machine Learning", "Statistics", "Pandas", "Scikit-learn", "TensorFlow"},
		NextRoles: []string{"Senior Data Scientist", "ML Engineer", "Data Engineer", "AI Engineer"},
	},
	"Product Manager": {
		Subjects:  []string{"Business", "Product Management", "Marketing"},
		Skills:    []string{"Product Strategy", "User Research", "Agile", "SQL", "Analytics", "Leadership", "Communication"},
		NextRoles: []string{"Senior Product Manager", "Product Director", "VP Product", "Entrepreneur"},
	},
	"Digital Marketer": {
		Subjects:  []string{"Marketing", "Business", "Digital Marketing"},
		Skills:    []string{"SEO", "Google Ads", "Social Media", "Analytics", "Content Marketing", "Email Marketing"},
		NextRoles: []string{"Marketing Manager", "Digital Marketing Director", "Growth Hacker", "Marketing Consultant"},
	},
	"Graphic Designer": {
		Subjects:  []string{"Design", "Graphic Design", "Web Design"},
		Skills:    []string{"Photoshop", "Illustrator", "InDesign", "UI/UX", "Typography", "Color Theory"},
		NextRoles: []string{"Senior Designer", "Art Director", "UX Designer", "Creative Director"},
	},
	"Business Analyst": {
		Subjects:  []string{"Business", "Business Analytics", "Data Science"},
		Skills:    []string{"SQL", "Excel", "Tableau", "Power BI", "Business Intelligence", "Requirements Analysis"},
		NextRoles: []string{"Senior Business Analyst", "Data Analyst", "Product Manager", "Business Intelligence Manager"},
	},
	"DevOps Engineer": {
		Subjects:  []string{"IT & Software", "Software Engineering", "Web Development"},
		Skills:    []string{"Docker", "Kubernetes", "AWS", "CI/CD", "Linux", "Python", "Shell Scripting"},
		NextRoles: []string{"Senior DevOps Engineer", "Site Reliability Engineer", "Cloud Architect", "DevOps Manager"},
	},
	"UX Designer": {
		Subjects:  []string{"Design", "Web Design", "User Experience"},
		Skills:    []string{"Figma", "Sketch", "User Research", "Prototyping", "Information Architecture", "Usability Testing"},
		NextRoles: []string{"Senior UX Designer", "UX Manager", "Product Designer", "UX Director"},
	},
	"Data Analyst": {
		Subjects:  []string{"Data Science", "Business Analytics", "Business"},
		Skills:    []string{"SQL", "Excel", "Python", "Tableau", "Power BI", "Statistics", "Data Visualization"},
		NextRoles: []string{"Senior Data Analyst", "Business Intelligence Analyst", "Data Scientist", "Analytics Manager"},
	},
	"Project Manager": {
		Subjects:  []string{"Business", "Project Management", "Leadership"},
		Skills:    []string{"Agile", "Scrum", "JIRA", "Risk Management", "Leadership", "Communication", "Budgeting"},
		NextRoles: []string{"Senior Project Manager", "Program Manager", "Project Director", "Portfolio Manager"},
	},
	"Frontend Developer": {
		Subjects:  []string{"Web Development", "Programming Languages", "Design"},
		Skills:    []string{"HTML", "CSS", "JavaScript", "React", "Vue.js", "Angular", "Responsive Design"},
		NextRoles: []string{"Senior Frontend Developer", "Full Stack Developer", "Frontend Architect", "UI Developer"},
	},
	"Backend Developer": {
		Subjects:  []string{"Web Development", "Programming Languages", "Software Engineering"},
		Skills:    []string{"Python", "Java", "Node.js", "SQL", "APIs", "Database Design", "Server Management"},
		NextRoles: []string{"Senior Backend Developer", "Full Stack Developer", "Backend Architect", "API Developer"},
	},
	"Full Stack Developer": {
		Subjects:  []string{"Web Development", "Programming Languages", "Software Engineering"},
		Skills:    []string{"HTML", "CSS", "JavaScript", "Python", "Node.js", "SQL", "React", "APIs"},
		NextRoles: []string{"Senior Full Stack Developer", "Tech Lead", "Software Architect", "Engineering Manager"},
	},
	"Mobile Developer": {
		Subjects:  []string{"Mobile Development", "Programming Languages", "Software Engineering"},
		Skills:    []string{"Swift", "Kotlin", "React Native", "Flutter", "Mobile UI", "App Store", "Firebase"},
		NextRoles: []string{"Senior Mobile Developer", "Mobile Architect", "iOS/Android Lead", "Mobile Engineering Manager"},
	},
	"AI Engineer": {
		Subjects:  []string{"Machine Learning", "Data Science", "Programming Languages"},
		Skills:    []string{"Python", "TensorFlow", "PyTorch", "Machine Learning", "Deep Learning", "NLP", "Computer Vision"},
		NextRoles: []string{"Senior AI Engineer", "ML Engineer", "AI Research Scientist", "AI Product Manager"},
	},
	"Cybersecurity Analyst": {
		Subjects:  []string{"IT & Software", "Network & Security", "Software Engineering"},
		Skills:    []string{"Network Security", "Penetration Testing", "SIEM", "Incident Response", "Compliance", "Cryptography"},
		NextRoles: []string{"Senior Security Analyst", "Security Engineer", "Security Manager", "CISO"},
	},
	"Cloud Engineer": {
		Subjects:  []string{"IT & Software", "Software Engineering", "Web Development"},
		Skills:    []string{"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Linux", "Networking"},
		NextRoles: []string{"Senior Cloud Engineer", "Cloud Architect", "DevOps Engineer", "Cloud Manager"},
	},
	"QA Engineer": {
		Subjects:  []string{"Software Engineering", "IT & Software", "Web Development"},
		Skills:    []string{"Manual Testing", "Automated Testing", "Selenium", "JIRA", "Test Planning", "API Testing"},
		NextRoles: []string{"Senior QA Engineer", "Test Lead", "QA Manager", "Test Automation Engineer"},
	},
}

var commonSkills = []string{ //nolint:gochecknoglobals // static read-only list
	"Python", "JavaScript", "Java", "React", "Node.js", "SQL", "Git", "Docker", "AWS", "Machine Learning",
	"Data Science", "HTML", "CSS", "Angular", "Vue.js", "PHP", "C++", "C#", "Ruby", "Go", "Rust",
	"Swift", "Kotlin", "Flutter", "React Native", "TensorFlow", "PyTorch", "Pandas", "NumPy", "Scikit-learn",
	"Tableau", "Power BI", "Excel", "Agile", "Scrum", "JIRA", "Figma", "Sketch", "Photoshop", "Illustrator",
	"SEO", "Google Ads", "Social Media", "Content Marketing", "Email Marketing", "Analytics", "Leadership",
}

var (
	defaultSubjects = []string{"Web Development", "Programming Languages", "Business", "Data Science"} //nolint:gochecknoglobals // static
	defaultSkills   = []string{"Python", "JavaScript", "SQL", "Leadership"}                          //nolint:gochecknoglobals // static
)

// careerTemplate is used for roles outside the curated table. Next roles are
// built from the role name: a leading "Senior " is always prepended to the role.
type careerTemplate struct {
	keywords  []string
	nextRoles []string
	skills    []string
	subjects  []string
}

// careerTemplates are evaluated in order; the first keyword hit wins.
var careerTemplates = []careerTemplate{ //nolint:gochecknoglobals // static read-only table
	{
		keywords:  []string{"engineer", "developer", "programmer"},
		nextRoles: []string{"Tech Lead", "Software Architect", "Engineering Manager"},
		skills:    []string{"Leadership", "System Design", "Architecture", "Team Management", "Advanced Programming"},
		subjects:  []string{"Software Engineering", "Computer Science", "System Design"},
	},
	{
		keywords:  []string{"analyst", "data"},
		nextRoles: []string{"Data Scientist", "Business Intelligence Manager", "Analytics Director"},
		skills:    []string{"Advanced Analytics", "Machine Learning", "Statistics", "Business Intelligence", "Leadership"},
		subjects:  []string{"Data Science", "Business Analytics", "Statistics"},
	},
	{
		keywords:  []string{"manager", "lead", "director"},
		nextRoles: []string{"Director", "VP", "C-Level Executive"},
		skills:    []string{"Strategic Planning", "Leadership", "Business Strategy", "Financial Management", "Team Building"},
		subjects:  []string{"Business", "Management", "Leadership"},
	},
	{
		keywords:  []string{"designer", "ux", "ui"},
		nextRoles: []string{"Design Lead", "Creative Director", "UX Director"},
		skills:    []string{"Design Systems", "User Research", "Prototyping", "Leadership", "Design Strategy"},
		subjects:  []string{"Design", "User Experience", "Visual Design"},
	},
	{
		keywords:  []string{"marketing", "marketer"},
		nextRoles: []string{"Marketing Manager", "Marketing Director", "CMO"},
		skills:    []string{"Digital Marketing", "Analytics", "Strategy", "Leadership", "Campaign Management"},
		subjects:  []string{"Marketing", "Digital Marketing", "Business"},
	},
	{
		keywords:  []string{"scientist", "researcher"},
		nextRoles: []string{"Research Lead", "Research Director", "Chief Scientist"},
		skills:    []string{"Advanced Research", "Methodology", "Leadership", "Publication", "Grant Writing"},
		subjects:  []string{"Research", "Science", "Methodology"},
	},
	{
		keywords:  []string{"consultant", "advisor"},
		nextRoles: []string{"Principal Consultant", "Partner", "Managing Director"},
		skills:    []string{"Client Management", "Business Development", "Strategy", "Leadership", "Industry Expertise"},
		subjects:  []string{"Business", "Consulting", "Strategy"},
	},
	{
		keywords:  []string{"sales", "account"},
		nextRoles: []string{"Sales Manager", "Sales Director", "VP of Sales"},
		skills:    []string{"Sales Strategy", "Team Management", "Business Development", "Leadership", "Customer Success"},
		subjects:  []string{"Sales", "Business", "Customer Success"},
	},
	{
		keywords:  []string{"support", "help", "customer"},
		nextRoles: []string{"Support Manager", "Customer Success Manager", "Support Director"},
		skills:    []string{"Customer Success", "Process Improvement", "Leadership", "Analytics", "Team Management"},
		subjects:  []string{"Customer Service", "Business", "Process Management"},
	},
	{
		keywords:  []string{"admin", "coordinator", "assistant"},
		nextRoles: []string{"Manager", "Director", "VP"},
		skills:    []string{"Leadership", "Process Management", "Strategic Planning", "Team Management", "Business Acumen"},
		subjects:  []string{"Business", "Management", "Administration"},
	},
}

var (
	genericSkills   = []string{"Leadership", "Strategic Thinking", "Communication", "Problem Solving", "Industry Expertise"} //nolint:gochecknoglobals // static
	genericSubjects = []string{"Business", "Leadership", "Industry-specific Skills"}                                        //nolint:gochecknoglobals // static
)
