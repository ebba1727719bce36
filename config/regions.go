package config

// RegionNames maps 법정동 region codes (lawd_cd) to display names for the
// 수도권 districts covered by the backend collector.
var RegionNames = map[string]string{
	// 서울
	"11110": "종로구", "11140": "중구", "11170": "용산구", "11200": "성동구",
	"11215": "광진구", "11230": "동대문구", "11260": "중랑구", "11290": "성북구",
	"11305": "강북구", "11320": "도봉구", "11350": "노원구", "11380": "은평구",
	"11410": "서대문구", "11440": "마포구", "11470": "양천구", "11500": "강서구",
	"11530": "구로구", "11545": "금천구", "11560": "영등포구", "11590": "동작구",
	"11620": "관악구", "11650": "서초구", "11680": "강남구", "11710": "송파구",
	"11740": "강동구",
	// 경기
	"41111": "수원장안", "41113": "수원권선", "41115": "수원영통", "41117": "수원팔달",
	"41131": "성남수정", "41133": "성남중원", "41135": "성남분당", "41150": "의정부",
	"41171": "안양만안", "41173": "안양동안", "41190": "부천", "41210": "광명",
	"41220": "평택", "41250": "동두천", "41271": "안산상록", "41273": "안산단원",
	"41281": "고양덕양", "41285": "고양일산동", "41287": "고양일산서", "41290": "과천",
	"41310": "구리", "41360": "남양주", "41370": "오산", "41390": "시흥",
	"41410": "군포", "41430": "의왕", "41450": "하남", "41461": "용인처인",
	"41463": "용인기흥", "41465": "용인수지", "41480": "파주", "41500": "이천",
	"41550": "안성", "41570": "김포", "41590": "화성", "41610": "광주",
	"41630": "양주", "41650": "포천", "41670": "여주", "41800": "연천",
	"41820": "가평", "41830": "양평",
	// 인천
	"28110": "인천중구", "28140": "인천동구", "28177": "미추홀", "28185": "연수구",
	"28200": "남동구", "28237": "부평구", "28245": "계양구", "28260": "인천서구",
	"28710": "강화군", "28720": "옹진군",
}

// RegionName returns the display name for a region code, or the code itself
// when the code is unknown.
func RegionName(lawdCd string) string {
	if name, ok := RegionNames[lawdCd]; ok {
		return name
	}
	return lawdCd
}
