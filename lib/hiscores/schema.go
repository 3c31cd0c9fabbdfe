package hiscores

// Schema pins the positional layout of the index_lite.ws response.
// Both lists are in official hiscore order; reordering or removing an
// entry invalidates every previously decoded snapshot, so entries are
// only ever appended when the game adds a skill or activity.
type Schema struct {
	Skills []string
	Bosses []string
}

// DefaultSchema returns the current hiscore layout.
func DefaultSchema() Schema {
	return Schema{
		Skills: []string{
			"overall",
			"attack",
			"defence",
			"strength",
			"hitpoints",
			"ranged",
			"prayer",
			"magic",
			"cooking",
			"woodcutting",
			"fletching",
			"fishing",
			"firemaking",
			"crafting",
			"smithing",
			"mining",
			"herblore",
			"agility",
			"thieving",
			"slayer",
			"farming",
			"runecraft",
			"hunter",
			"construction",
			"sailing",
		},
		Bosses: []string{
			"abyssal_sire",
			"alchemical_hydra",
			"amoxliatl",
			"araxxor",
			"artio",
			"barrows_chests",
			"bryophyta",
			"callisto",
			"calvarion",
			"cerberus",
			"chambers_of_xeric",
			"chambers_of_xeric_challenge_mode",
			"chaos_elemental",
			"chaos_fanatic",
			"commander_zilyana",
			"corporeal_beast",
			"crazy_archaeologist",
			"dagannoth_prime",
			"dagannoth_rex",
			"dagannoth_supreme",
			"deranged_archaeologist",
			"doom_of_mokhaiotl",
			"duke_sucellus",
			"general_graardor",
			"giant_mole",
			"grotesque_guardians",
			"hespori",
			"kalphite_queen",
			"king_black_dragon",
			"kraken",
			"kree_arra",
			"kril_tsutsaroth",
			"lunar_chests",
			"mimic",
			"nex",
			"nightmare",
			"phosanis_nightmare",
			"obor",
			"phantom_muspah",
			"sarachnis",
			"scorpia",
			"scurrius",
			"skotizo",
			"sol_heredit",
			"spindel",
			"tempoross",
			"gauntlet",
			"corrupted_gauntlet",
			"hueycoatl",
			"leviathan",
			"royal_titans",
			"whisperer",
			"theatre_of_blood",
			"theatre_of_blood_hard_mode",
			"thermonuclear_smoke_devil",
			"tombs_of_amascut",
			"tombs_of_amascut_expert_mode",
			"tzkal_zuk",
			"tztok_jad",
			"vardorvis",
			"venenatis",
			"vetion",
			"vorkath",
			"wintertodt",
			"yama",
			"zalcano",
			"zulrah",
		},
	}
}
