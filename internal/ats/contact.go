package ats

// checkContactInfo 联系方式检查（满分10）
// 优先读basics区块，basics缺失或为空时回退到顶层同名字段
func checkContactInfo(doc Document) (float64, []string) {
	score := 10.0
	feedback := []string{}

	basics := doc.Map("basics")
	if len(basics) == 0 {
		// 回退字典只含这五个键，profiles在回退路径下视为不存在
		basics = Document{
			"name":     doc["name"],
			"email":    doc["email"],
			"phone":    doc["phone"],
			"location": doc["location"],
			"linkedin": doc["linkedin"],
		}
	}

	if !truthy(basics["name"]) {
		score -= 3
		feedback = append(feedback, "Missing name in contact information - this is critical for ATS identification")
	}

	email := basics["email"]
	if !truthy(email) {
		score -= 2
		feedback = append(feedback, "Missing email address - essential contact information for employers")
	} else if s, ok := email.(string); !ok || !emailPattern.MatchString(s) {
		score -= 1
		feedback = append(feedback, "Email address format may not be recognized by ATS systems")
	}

	if !truthy(basics["phone"]) {
		score -= 2
		feedback = append(feedback, "Missing phone number - essential contact information for employers")
	}

	if !truthy(basics["location"]) {
		score -= 1
		feedback = append(feedback, "Missing location information - helps with geographic matching")
	}

	if !truthy(basics["linkedin"]) && !truthy(basics["profiles"]) {
		score -= 1
		feedback = append(feedback, "Consider adding LinkedIn profile URL for better professional presence")
	}

	if len(feedback) == 0 {
		feedback = append(feedback, "All essential contact information is present and properly formatted")
	}

	return max(0, score), feedback
}
